package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/config"
	"github.com/meinhoongagan/senior-care-app/models"
)

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP() error = %v", err)
		}
		if !pattern.MatchString(otp) {
			t.Fatalf("GenerateOTP() = %q, want 6 digits", otp)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Home Care":                "home-care",
		"  Personal & Companion  ": "personal-companion",
		"Meal-Prep 24/7":           "meal-prep-24-7",
		"ALREADY-slugged":          "already-slugged",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func newIssuer() *TokenIssuer {
	return NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestTokenIssuer_RefreshRoundTrip(t *testing.T) {
	issuer := newIssuer()

	pair, err := issuer.IssuePair(42, models.RoleProvider)
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}

	id, err := issuer.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestTokenIssuer_RejectsAccessTokenAsRefresh(t *testing.T) {
	issuer := newIssuer()
	access, err := issuer.AccessToken(1, models.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}

	_, err = issuer.ParseRefreshToken(access)
	if !errors.Is(err, errors.Unauthorized) {
		t.Errorf("expected Unauthorized, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := newIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _ := issuer.IssuePair(1, models.RoleCustomer)

	if _, err := newIssuer().ParseRefreshToken(expired.RefreshToken); !errors.Is(err, errors.Unauthorized) {
		t.Errorf("expired token: expected Unauthorized, got %v", err)
	}

	other := NewTokenIssuer(config.JWTConfig{Secret: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	foreign, _ := other.IssuePair(1, models.RoleCustomer)
	if _, err := newIssuer().ParseRefreshToken(foreign.RefreshToken); !errors.Is(err, errors.Unauthorized) {
		t.Errorf("foreign token: expected Unauthorized, got %v", err)
	}
}
