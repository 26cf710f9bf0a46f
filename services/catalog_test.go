package services

import (
	"context"
	"strings"
	"testing"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/storage"
)

func png(name string) *storage.Upload {
	return &storage.Upload{Filename: name, ContentType: "image/png", Size: 2048, Reader: strings.NewReader("png")}
}

func newCatalogFixture() (*CatalogService, *fakeCategories, *fakeStore, uint) {
	users := newFakeUsers()
	categories := newFakeCategories()
	files := &fakeStore{}
	admin := seedAdmin(users)
	return NewCatalogService(users, categories, files), categories, files, admin.ID
}

func TestCreateCategory_SlugConflict(t *testing.T) {
	svc, _, _, admin := newCatalogFixture()
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Home Care")})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if first.Slug != "home-care" || !first.IsActive {
		t.Errorf("category = %+v", first)
	}

	_, err = svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("  home   CARE!! ")})
	if !errors.Is(err, errors.AlreadyExists) {
		t.Errorf("duplicate slug error = %v, want AlreadyExists", err)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	svc, _, _, admin := newCatalogFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		in   CatalogInput
		kind error
	}{
		{"missing title", CatalogInput{}, errors.BadRequest},
		{"title without letters", CatalogInput{Title: ptr("!!!")}, errors.BadRequest},
		{"unsupported image", CatalogInput{Title: ptr("Meals"), Image: &storage.Upload{Filename: "a.gif", ContentType: "image/gif", Size: 10}}, errors.BadRequest},
		{"image too large", CatalogInput{Title: ptr("Meals"), Image: &storage.Upload{Filename: "a.png", ContentType: "image/png", Size: storage.MaxImageSize + 1}}, errors.BadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateCategory(ctx, admin, tt.in); !errors.Is(err, tt.kind) {
				t.Errorf("CreateCategory() error = %v, want %v", err, tt.kind)
			}
		})
	}

	if _, err := svc.CreateCategory(ctx, 0, CatalogInput{Title: ptr("Meals")}); !errors.Is(err, errors.Unauthorized) {
		t.Errorf("anonymous CreateCategory() error = %v", err)
	}
}

func TestUpdateCategory_Image(t *testing.T) {
	svc, _, files, admin := newCatalogFixture()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Transport"), Image: png("bus.png")})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	original := category.Image
	if original == "" {
		t.Fatal("image not stored")
	}

	updated, err := svc.UpdateCategory(ctx, admin, category.ID, CatalogInput{Image: png("van.png"), IsActive: ptr(false)})
	if err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}
	if updated.Image == original || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}
	if len(files.Deleted) != 1 || files.Deleted[0] != original {
		t.Errorf("old image not deleted: %v", files.Deleted)
	}

	removed, err := svc.UpdateCategory(ctx, admin, category.ID, CatalogInput{RemoveImage: true})
	if err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}
	if removed.Image != "" || len(files.Deleted) != 2 {
		t.Errorf("remove image: image=%q deleted=%v", removed.Image, files.Deleted)
	}

	if _, err := svc.UpdateCategory(ctx, admin, 999, CatalogInput{}); !errors.Is(err, errors.NotFound) {
		t.Errorf("missing category error = %v", err)
	}
}

func TestUpdateCategory_RenameConflict(t *testing.T) {
	svc, _, _, admin := newCatalogFixture()
	ctx := context.Background()
	if _, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Meals")}); err != nil {
		t.Fatal(err)
	}
	other, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Cleaning")})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateCategory(ctx, admin, other.ID, CatalogInput{Title: ptr("MEALS")}); !errors.Is(err, errors.AlreadyExists) {
		t.Errorf("rename onto existing slug error = %v", err)
	}
	renamed, err := svc.UpdateCategory(ctx, admin, other.ID, CatalogInput{Title: ptr("Deep Cleaning")})
	if err != nil || renamed.Slug != "deep-cleaning" {
		t.Errorf("rename = %+v, %v", renamed, err)
	}
}

func TestDeleteCategory_Cascades(t *testing.T) {
	svc, categories, files, admin := newCatalogFixture()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Personal Care"), Image: png("pc.png")})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := svc.CreateSubcategory(ctx, admin, category.ID, CatalogInput{Title: ptr("Bathing"), Image: png("bath.png")})
	if err != nil {
		t.Fatalf("CreateSubcategory() error = %v", err)
	}

	if err := svc.DeleteCategory(ctx, admin, category.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if _, err := categories.FindSubcategoryByID(ctx, sub.ID); !errors.Is(err, errors.NotFound) {
		t.Error("subcategory survived its category")
	}
	if len(files.Deleted) != 2 {
		t.Errorf("expected both images deleted, got %v", files.Deleted)
	}
}

func TestDelete_InUse(t *testing.T) {
	svc, categories, files, admin := newCatalogFixture()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Transport"), Image: png("car.png")})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := svc.CreateSubcategory(ctx, admin, category.ID, CatalogInput{Title: ptr("Clinic Visits")})
	if err != nil {
		t.Fatal(err)
	}

	categories.DeleteError = errors.WithType(errors.New("category is still referenced"), errors.AlreadyExists)
	err = svc.DeleteCategory(ctx, admin, category.ID)
	if !errors.Is(err, errors.AlreadyExists) || err.Error() != "Category is in use by bookings or service requests" {
		t.Fatalf("DeleteCategory() error = %v, want in-use conflict", err)
	}
	if err := svc.DeleteSubcategory(ctx, admin, sub.ID); !errors.Is(err, errors.AlreadyExists) {
		t.Fatalf("DeleteSubcategory() error = %v, want in-use conflict", err)
	}
	if len(files.Deleted) != 0 {
		t.Errorf("images deleted although the rows stayed: %v", files.Deleted)
	}
	if _, err := categories.FindCategoryByID(ctx, category.ID); err != nil {
		t.Errorf("category gone after failed delete: %v", err)
	}
}

func TestSubcategories(t *testing.T) {
	svc, _, _, admin := newCatalogFixture()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Companionship")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateSubcategory(ctx, admin, 999, CatalogInput{Title: ptr("Walks")}); !errors.Is(err, errors.NotFound) {
		t.Errorf("missing parent error = %v", err)
	}
	walks, err := svc.CreateSubcategory(ctx, admin, category.ID, CatalogInput{Title: ptr("Walks")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateSubcategory(ctx, admin, category.ID, CatalogInput{Title: ptr("walks")}); !errors.Is(err, errors.AlreadyExists) {
		t.Errorf("duplicate subcategory error = %v", err)
	}
	if _, err := svc.CreateSubcategory(ctx, admin, category.ID, CatalogInput{Title: ptr("Games"), IsActive: ptr(false)}); err != nil {
		t.Fatal(err)
	}

	active, err := svc.ListSubcategories(ctx, category.ID, false)
	if err != nil || len(active) != 1 || active[0].ID != walks.ID {
		t.Errorf("active subcategories = %+v, %v", active, err)
	}
	all, err := svc.ListSubcategories(ctx, category.ID, true)
	if err != nil || len(all) != 2 {
		t.Errorf("all subcategories = %d, %v", len(all), err)
	}

	if err := svc.DeleteSubcategory(ctx, admin, walks.ID); err != nil {
		t.Fatalf("DeleteSubcategory() error = %v", err)
	}
	if err := svc.DeleteSubcategory(ctx, admin, walks.ID); !errors.Is(err, errors.NotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestGetCategory_ByIDOrSlug(t *testing.T) {
	svc, _, _, admin := newCatalogFixture()
	ctx := context.Background()
	category, err := svc.CreateCategory(ctx, admin, CatalogInput{Title: ptr("Meal Prep")})
	if err != nil {
		t.Fatal(err)
	}

	byID, err := svc.GetCategory(ctx, "1")
	if err != nil || byID.ID != category.ID {
		t.Errorf("GetCategory(id) = %+v, %v", byID, err)
	}
	bySlug, err := svc.GetCategory(ctx, "Meal-Prep")
	if err != nil || bySlug.ID != category.ID {
		t.Errorf("GetCategory(slug) = %+v, %v", bySlug, err)
	}
	if _, err := svc.GetCategory(ctx, "nope"); !errors.Is(err, errors.NotFound) {
		t.Errorf("GetCategory(missing) error = %v", err)
	}
}
