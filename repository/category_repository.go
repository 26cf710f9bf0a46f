package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/senior-care-app/models"
)

type GormCategoryRepository struct {
	db *gorm.DB
}

var _ CategoryRepository = (*GormCategoryRepository)(nil)

func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error, "category")
}

func (r *GormCategoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error, "category")
}

func (r *GormCategoryRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return translate(err, "subcategory")
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return translate(res.Error, "category")
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "category")
		}
		return nil
	})
}

func (r *GormCategoryRepository) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Subcategories").First(&category, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Subcategories").Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *GormCategoryRepository) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Order("title ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true).Preload("Subcategories", "is_active = ?", true)
	} else {
		query = query.Preload("Subcategories")
	}

	var categories []models.Category
	err := query.Find(&categories).Error
	return categories, translate(err, "category")
}

func (r *GormCategoryRepository) CreateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error, "subcategory")
}

func (r *GormCategoryRepository) UpdateSubcategory(ctx context.Context, sub *models.Subcategory) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error, "subcategory")
}

func (r *GormCategoryRepository) DeleteSubcategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Subcategory{}, id)
	if res.Error != nil {
		return translate(res.Error, "subcategory")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "subcategory")
	}
	return nil
}

func (r *GormCategoryRepository) FindSubcategoryByID(ctx context.Context, id uint) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, translate(err, "subcategory")
	}
	return &sub, nil
}

func (r *GormCategoryRepository) FindSubcategoryBySlug(ctx context.Context, slug string) (*models.Subcategory, error) {
	var sub models.Subcategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&sub).Error; err != nil {
		return nil, translate(err, "subcategory")
	}
	return &sub, nil
}

func (r *GormCategoryRepository) ListSubcategories(ctx context.Context, categoryID uint, includeInactive bool) ([]models.Subcategory, error) {
	query := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("title ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var subs []models.Subcategory
	err := query.Find(&subs).Error
	return subs, translate(err, "subcategory")
}
