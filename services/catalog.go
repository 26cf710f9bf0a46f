package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/storage"
	"github.com/meinhoongagan/senior-care-app/utils"
	"github.com/meinhoongagan/senior-care-app/validation"
)

// CatalogInput is the multipart form for categories and subcategories. Nil
// fields are left unchanged on update.
type CatalogInput struct {
	Title       *string
	Description *string
	IsActive    *bool
	Image       *storage.Upload
	RemoveImage bool
}

type CatalogService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	files      storage.Store
}

func NewCatalogService(users repository.UserRepository, categories repository.CategoryRepository, files storage.Store) *CatalogService {
	return &CatalogService{users: users, categories: categories, files: files}
}

func slugFor(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validation.NewFieldError("title", "title is required")
	}
	slug := utils.Slugify(title)
	if slug == "" {
		return "", validation.NewFieldError("title", "title must contain letters or digits")
	}
	return slug, nil
}

// storeImage saves a new image when one was sent. It returns the location to
// record and, when the previous image is being replaced or removed, the
// location to delete once the row is saved.
func (s *CatalogService) storeImage(ctx context.Context, folder, current string, in CatalogInput) (string, string, error) {
	if in.Image != nil {
		if err := storage.Check(*in.Image, storage.ImageTypes, storage.MaxImageSize); err != nil {
			return "", "", err
		}
		location, err := s.files.Save(ctx, folder, *in.Image)
		if err != nil {
			return "", "", errors.Annotate(err, "failed to store image")
		}
		return location, current, nil
	}
	if in.RemoveImage {
		return "", current, nil
	}
	return current, "", nil
}

func (s *CatalogService) discard(ctx context.Context, location string) {
	if location == "" {
		return
	}
	if err := s.files.Delete(ctx, location); err != nil {
		logging.Warn().Err(err).Str("location", location).Msg("Failed to delete image")
	}
}

func (s *CatalogService) checkCategorySlug(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.categories.FindCategoryBySlug(ctx, slug)
	switch {
	case errors.Is(err, errors.NotFound):
		return nil
	case err != nil:
		return errors.Trace(err)
	case existing.ID != selfID:
		return conflict("A category with this title already exists")
	}
	return nil
}

func (s *CatalogService) checkSubcategorySlug(ctx context.Context, slug string, selfID uint) error {
	existing, err := s.categories.FindSubcategoryBySlug(ctx, slug)
	switch {
	case errors.Is(err, errors.NotFound):
		return nil
	case err != nil:
		return errors.Trace(err)
	case existing.ID != selfID:
		return conflict("A subcategory with this title already exists")
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, adminID uint, in CatalogInput) (*models.Category, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	slug, err := slugFor(title)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategorySlug(ctx, slug, 0); err != nil {
		return nil, err
	}

	image, _, err := s.storeImage(ctx, "categories", "", in)
	if err != nil {
		return nil, err
	}
	category := &models.Category{Title: title, Slug: slug, Image: image, IsActive: true}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.categories.CreateCategory(ctx, category); err != nil {
		s.discard(ctx, image)
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("A category with this title already exists")
		}
		return nil, errors.Trace(err)
	}
	logging.Info().Uint("category_id", category.ID).Str("slug", slug).Msg("Category created")
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, adminID, id uint, in CatalogInput) (*models.Category, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		slug, err := slugFor(*in.Title)
		if err != nil {
			return nil, err
		}
		if slug != category.Slug {
			if err := s.checkCategorySlug(ctx, slug, category.ID); err != nil {
				return nil, err
			}
		}
		category.Title = strings.TrimSpace(*in.Title)
		category.Slug = slug
	}
	if in.Description != nil {
		category.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	image, old, err := s.storeImage(ctx, "categories", category.Image, in)
	if err != nil {
		return nil, err
	}
	category.Image = image

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		if in.Image != nil {
			s.discard(ctx, image)
		}
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("A category with this title already exists")
		}
		return nil, errors.Trace(err)
	}
	s.discard(ctx, old)
	return category, nil
}

// DeleteCategory removes the category, its subcategories, and every image they held.
func (s *CatalogService) DeleteCategory(ctx context.Context, adminID, id uint) error {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return err
	}
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}
	subs, err := s.categories.ListSubcategories(ctx, category.ID, true)
	if err != nil {
		return errors.Trace(err)
	}

	if err := s.categories.DeleteCategory(ctx, category.ID); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return conflict("Category is in use by bookings or service requests")
		}
		return errors.Trace(err)
	}
	s.discard(ctx, category.Image)
	for _, sub := range subs {
		s.discard(ctx, sub.Image)
	}
	logging.Info().Uint("category_id", category.ID).Int("subcategories", len(subs)).Msg("Category deleted")
	return nil
}

func (s *CatalogService) findCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindCategoryByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Category not found")
	}
	return category, errors.Trace(err)
}

func (s *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx, includeInactive)
	return categories, errors.Trace(err)
}

// GetCategory looks a category up by numeric id or by slug.
func (s *CatalogService) GetCategory(ctx context.Context, key string) (*models.Category, error) {
	key = strings.TrimSpace(key)
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return s.findCategory(ctx, uint(id))
	}
	category, err := s.categories.FindCategoryBySlug(ctx, strings.ToLower(key))
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Category not found")
	}
	return category, errors.Trace(err)
}

func (s *CatalogService) ListSubcategories(ctx context.Context, categoryID uint, includeInactive bool) ([]models.Subcategory, error) {
	if _, err := s.findCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	subs, err := s.categories.ListSubcategories(ctx, categoryID, includeInactive)
	return subs, errors.Trace(err)
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, adminID, categoryID uint, in CatalogInput) (*models.Subcategory, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	var title string
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	slug, err := slugFor(title)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubcategorySlug(ctx, slug, 0); err != nil {
		return nil, err
	}

	image, _, err := s.storeImage(ctx, "subcategories", "", in)
	if err != nil {
		return nil, err
	}
	sub := &models.Subcategory{CategoryID: category.ID, Title: title, Slug: slug, Image: image, IsActive: true}
	if in.Description != nil {
		sub.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}

	if err := s.categories.CreateSubcategory(ctx, sub); err != nil {
		s.discard(ctx, image)
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("A subcategory with this title already exists")
		}
		return nil, errors.Trace(err)
	}
	return sub, nil
}

func (s *CatalogService) UpdateSubcategory(ctx context.Context, adminID, id uint, in CatalogInput) (*models.Subcategory, error) {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return nil, err
	}
	sub, err := s.findSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		slug, err := slugFor(*in.Title)
		if err != nil {
			return nil, err
		}
		if slug != sub.Slug {
			if err := s.checkSubcategorySlug(ctx, slug, sub.ID); err != nil {
				return nil, err
			}
		}
		sub.Title = strings.TrimSpace(*in.Title)
		sub.Slug = slug
	}
	if in.Description != nil {
		sub.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}

	image, old, err := s.storeImage(ctx, "subcategories", sub.Image, in)
	if err != nil {
		return nil, err
	}
	sub.Image = image

	if err := s.categories.UpdateSubcategory(ctx, sub); err != nil {
		if in.Image != nil {
			s.discard(ctx, image)
		}
		if errors.Is(err, errors.AlreadyExists) {
			return nil, conflict("A subcategory with this title already exists")
		}
		return nil, errors.Trace(err)
	}
	s.discard(ctx, old)
	return sub, nil
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, adminID, id uint) error {
	if _, err := requireAdmin(ctx, s.users, adminID); err != nil {
		return err
	}
	sub, err := s.findSubcategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.DeleteSubcategory(ctx, sub.ID); err != nil {
		if errors.Is(err, errors.AlreadyExists) {
			return conflict("Subcategory is in use by service requests")
		}
		return errors.Trace(err)
	}
	s.discard(ctx, sub.Image)
	return nil
}

func (s *CatalogService) findSubcategory(ctx context.Context, id uint) (*models.Subcategory, error) {
	sub, err := s.categories.FindSubcategoryByID(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return nil, notFound("Subcategory not found")
	}
	return sub, errors.Trace(err)
}
