package services

import (
	"context"
	"testing"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/models"
)

func TestProviderDirectory(t *testing.T) {
	users := newFakeUsers()
	svc := NewProviderService(users)
	ctx := context.Background()

	pat := seedProvider(users, "pat")
	pat.VettedStatus = models.VettedStatusVetted
	users.seed(pat)
	sam := seedProvider(users, "sam")
	sam.ServiceType = "transport"
	users.seed(sam)
	alice := seedCustomer(users, "alice")

	tests := []struct {
		name  string
		query ProviderQuery
		want  []uint
	}{
		{"all providers", ProviderQuery{}, []uint{pat.ID, sam.ID}},
		{"vetted only", ProviderQuery{VettedOnly: true}, []uint{pat.ID}},
		{"by service type", ProviderQuery{ServiceType: " Transport "}, []uint{sam.ID}},
		{"search business name", ProviderQuery{Search: "pat care"}, []uint{pat.ID}},
		{"no match", ProviderQuery{Search: "zzz"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d providers, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("List()[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}

	profile, err := svc.Get(ctx, pat.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !profile.Vetted || profile.BusinessName != "pat Care" {
		t.Errorf("profile = %+v", profile)
	}
	if _, err := svc.Get(ctx, alice.ID); !errors.Is(err, errors.NotFound) {
		t.Errorf("Get(customer) error = %v, want NotFound", err)
	}
	if _, err := svc.Get(ctx, 999); !errors.Is(err, errors.NotFound) {
		t.Errorf("Get(missing) error = %v, want NotFound", err)
	}
}
