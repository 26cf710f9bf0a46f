package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/config"
	"github.com/meinhoongagan/senior-care-app/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

func (t *TokenIssuer) Secret() []byte {
	return t.secret
}

func (t *TokenIssuer) sign(userID uint, role models.Role, kind string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"role": string(role),
		"type": kind,
		"exp":  t.now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// AccessToken signs a short-lived access token.
func (t *TokenIssuer) AccessToken(userID uint, role models.Role) (string, error) {
	return t.sign(userID, role, TokenTypeAccess, t.accessTTL)
}

// IssuePair signs an access and a refresh token for the user.
func (t *TokenIssuer) IssuePair(userID uint, role models.Role) (*TokenPair, error) {
	access, err := t.AccessToken(userID, role)
	if err != nil {
		return nil, errors.Annotate(err, "failed to generate token")
	}
	refresh, err := t.sign(userID, role, TokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return nil, errors.Annotate(err, "failed to generate refresh token")
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

// ParseRefreshToken verifies a refresh token and returns the user id it names.
func (t *TokenIssuer) ParseRefreshToken(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.WithType(errors.New("invalid refresh token"), errors.Unauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != TokenTypeRefresh {
		return 0, errors.WithType(errors.New("invalid refresh token"), errors.Unauthorized)
	}
	id, err := ClaimUserID(claims)
	if err != nil {
		return 0, errors.WithType(errors.New("invalid refresh token"), errors.Unauthorized)
	}
	return id, nil
}

// ClaimUserID reads the "id" claim, which decodes as float64 from JSON.
func ClaimUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("invalid id claim %v", v)
		}
		return uint(v), nil
	case nil:
		return 0, fmt.Errorf("no ID found in claims")
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}
