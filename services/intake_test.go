package services

import (
	"context"
	"sync"
	"testing"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/models"
)

func TestServiceRequests(t *testing.T) {
	users := newFakeUsers()
	categories := newFakeCategories()
	requests := newFakeServiceRequests()
	svc := NewServiceRequestService(users, requests, categories)
	ctx := context.Background()

	alice := seedCustomer(users, "alice")
	bob := seedCustomer(users, "bob")
	pat := seedProvider(users, "pat")
	admin := seedAdmin(users)

	care := &models.Category{Title: "Home Care", Slug: "home-care", IsActive: true}
	meals := &models.Category{Title: "Meals", Slug: "meals", IsActive: true}
	_ = categories.CreateCategory(ctx, care)
	_ = categories.CreateCategory(ctx, meals)
	bathing := &models.Subcategory{CategoryID: care.ID, Title: "Bathing", Slug: "bathing", IsActive: true}
	_ = categories.CreateSubcategory(ctx, bathing)

	if _, err := svc.Create(ctx, alice.ID, CreateServiceRequestInput{CategoryID: meals.ID, SubcategoryID: &bathing.ID, Title: "Help"}); !errors.Is(err, errors.BadRequest) {
		t.Errorf("mismatched subcategory error = %v, want BadRequest", err)
	}
	if _, err := svc.Create(ctx, alice.ID, CreateServiceRequestInput{CategoryID: 999, Title: "Help"}); !errors.Is(err, errors.NotFound) {
		t.Errorf("missing category error = %v, want NotFound", err)
	}
	if _, err := svc.Create(ctx, pat.ID, CreateServiceRequestInput{CategoryID: care.ID, Title: "Help"}); !errors.Is(err, errors.Forbidden) {
		t.Errorf("provider create error = %v, want Forbidden", err)
	}

	req, err := svc.Create(ctx, alice.ID, CreateServiceRequestInput{
		CategoryID: care.ID, SubcategoryID: &bathing.ID, Title: "Weekly bath help", Latitude: ptr(30.27), Longitude: ptr(-97.74),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if req.Status != models.ServiceRequestStatusPending || req.UserID != alice.ID {
		t.Errorf("request = %+v", req)
	}

	open, err := svc.ListOpen(ctx, pat.ID, &care.ID)
	if err != nil || len(open) != 1 {
		t.Errorf("ListOpen() = %d, %v", len(open), err)
	}
	if _, err := svc.ListOpen(ctx, bob.ID, nil); !errors.Is(err, errors.Forbidden) {
		t.Errorf("customer ListOpen() error = %v", err)
	}

	for _, reader := range []uint{alice.ID, pat.ID, admin.ID} {
		if _, err := svc.Get(ctx, reader, req.ID); err != nil {
			t.Errorf("Get() by %d error = %v", reader, err)
		}
	}
	if _, err := svc.Get(ctx, bob.ID, req.ID); !errors.Is(err, errors.Forbidden) {
		t.Errorf("Get() by other customer error = %v", err)
	}

	if _, err := svc.Update(ctx, pat.ID, req.ID, UpdateServiceRequestInput{Title: ptr("mine now")}); !errors.Is(err, errors.Forbidden) {
		t.Errorf("Update() by provider error = %v", err)
	}
	updated, err := svc.Update(ctx, alice.ID, req.ID, UpdateServiceRequestInput{CategoryID: &meals.ID, Status: ptr("MATCHED")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.CategoryID != meals.ID || updated.SubcategoryID != nil || updated.Status != "MATCHED" {
		t.Errorf("updated = %+v", updated)
	}
	open, _ = svc.ListOpen(ctx, pat.ID, nil)
	if len(open) != 0 {
		t.Errorf("matched request still listed as open")
	}

	if err := svc.Delete(ctx, bob.ID, req.ID); !errors.Is(err, errors.Forbidden) {
		t.Errorf("Delete() by other customer error = %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, req.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestInquiries(t *testing.T) {
	users := newFakeUsers()
	svc := NewInquiryService(users, newFakeInquiries())
	ctx := context.Background()
	admin := seedAdmin(users)
	customer := seedCustomer(users, "alice")

	if _, err := svc.Create(ctx, CreateInquiryInput{Name: "Jo", Email: "not-an-email", Message: "hi"}); !errors.Is(err, errors.BadRequest) {
		t.Errorf("invalid email error = %v", err)
	}
	inquiry, err := svc.Create(ctx, CreateInquiryInput{Name: "Jo", Email: "Jo@Example.com", Message: "Do you cover Austin?"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if inquiry.Status != models.InquiryStatusPending || inquiry.Priority != models.InquiryPriorityMedium || inquiry.Email != "jo@example.com" {
		t.Errorf("inquiry = %+v", inquiry)
	}

	if _, err := svc.List(ctx, customer.ID, InquiryQuery{}); !errors.Is(err, errors.Forbidden) {
		t.Errorf("customer List() error = %v", err)
	}

	for _, status := range []string{"REVIEWED", "responded", "CLOSED", "OPEN", "PENDING"} {
		s := status
		if _, err := svc.Update(ctx, admin.ID, inquiry.ID, UpdateInquiryInput{Status: &s}); err != nil {
			t.Errorf("Update(status=%s) error = %v", status, err)
		}
	}
	if got, _ := svc.find(ctx, inquiry.ID); got.Status != models.InquiryStatusPending {
		t.Errorf("PENDING not stored, got %s", got.Status)
	}
	if _, err := svc.Update(ctx, admin.ID, inquiry.ID, UpdateInquiryInput{Status: ptr("ARCHIVED")}); !errors.Is(err, errors.BadRequest) {
		t.Errorf("invalid status error = %v", err)
	}
	if _, err := svc.Update(ctx, admin.ID, inquiry.ID, UpdateInquiryInput{Priority: ptr("URGENT")}); !errors.Is(err, errors.BadRequest) {
		t.Errorf("invalid priority error = %v", err)
	}

	updated, err := svc.Update(ctx, admin.ID, inquiry.ID, UpdateInquiryInput{Priority: ptr("high"), AdminNotes: ptr("call back")})
	if err != nil || updated.Priority != models.InquiryPriorityHigh || updated.AdminNotes != "call back" {
		t.Errorf("Update() = %+v, %v", updated, err)
	}

	high, err := svc.List(ctx, admin.ID, InquiryQuery{Priority: "HIGH"})
	if err != nil || len(high) != 1 {
		t.Errorf("List(HIGH) = %d, %v", len(high), err)
	}
	closed, err := svc.List(ctx, admin.ID, InquiryQuery{Status: "CLOSED"})
	if err != nil || len(closed) != 0 {
		t.Errorf("List(CLOSED) = %d, %v", len(closed), err)
	}

	if err := svc.Delete(ctx, admin.ID, inquiry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, admin.ID, inquiry.ID); !errors.Is(err, errors.NotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	users := newFakeUsers()
	subs := newFakeNewsletter()
	svc := NewNewsletterService(users, subs)
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, SubscribeInput{Email: "Reader@Example.com", Name: "Reader"})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !first.IsActive || first.Email != "reader@example.com" {
		t.Errorf("subscription = %+v", first)
	}
	if _, err := svc.Subscribe(ctx, SubscribeInput{Email: "reader@example.com"}); !errors.Is(err, errors.AlreadyExists) {
		t.Errorf("active resubscribe error = %v, want AlreadyExists", err)
	}

	lapsed := *first
	lapsed.IsActive = false
	_ = subs.Update(ctx, &lapsed)

	again, err := svc.Subscribe(ctx, SubscribeInput{Email: "reader@example.com"})
	if err != nil {
		t.Fatalf("reactivate error = %v", err)
	}
	if !again.IsActive || again.ID != first.ID || again.Name != "Reader" {
		t.Errorf("reactivated = %+v", again)
	}
}

func TestNewsletterSubscribe_Concurrent(t *testing.T) {
	svc := NewNewsletterService(newFakeUsers(), newFakeNewsletter())
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Subscribe(ctx, SubscribeInput{Email: "race@example.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, errors.AlreadyExists):
				conflicts++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || conflicts != 1 {
		t.Errorf("created=%d conflicts=%d, want one of each", created, conflicts)
	}
}

func TestNewsletterList_AdminOnly(t *testing.T) {
	users := newFakeUsers()
	svc := NewNewsletterService(users, newFakeNewsletter())
	ctx := context.Background()
	admin := seedAdmin(users)
	customer := seedCustomer(users, "alice")

	if _, err := svc.List(ctx, customer.ID); !errors.Is(err, errors.Forbidden) {
		t.Errorf("customer List() error = %v", err)
	}
	if _, err := svc.Subscribe(ctx, SubscribeInput{Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	list, err := svc.List(ctx, admin.ID)
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d, %v", len(list), err)
	}
}
