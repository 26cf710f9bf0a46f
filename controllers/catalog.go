package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/services"
	"github.com/meinhoongagan/senior-care-app/validation"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// formValue returns nil for a field that was not sent at all.
func formValue(c *fiber.Ctx, name string) *string {
	if c.Request().PostArgs().Has(name) {
		v := c.FormValue(name)
		return &v
	}
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			return &values[0]
		}
	}
	return nil
}

// catalogForm reads the multipart fields shared by categories and
// subcategories. The returned func releases the uploaded file.
func catalogForm(c *fiber.Ctx) (services.CatalogInput, func(), error) {
	in := services.CatalogInput{
		Title:       formValue(c, "title"),
		Description: formValue(c, "description"),
	}
	if raw := formValue(c, "isActive"); raw != nil {
		active, err := strconv.ParseBool(*raw)
		if err != nil {
			return in, func() {}, validation.NewFieldError("isActive", "isActive must be true or false")
		}
		in.IsActive = &active
	}
	if raw := formValue(c, "removeImage"); raw != nil {
		in.RemoveImage, _ = strconv.ParseBool(*raw)
	}

	up, closer, err := formFile(c, "image")
	if err != nil {
		return in, func() {}, validation.NewFieldError("image", "image could not be read")
	}
	in.Image = up
	return in, func() { _ = closer.Close() }, nil
}

func (h *CatalogController) ListCategories(c *fiber.Ctx) error {
	includeInactive := queryBool(c, "all") && middleware.Role(c) == models.RoleAdmin
	categories, err := h.catalog.ListCategories(c.UserContext(), includeInactive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory accepts a numeric id or a slug.
func (h *CatalogController) GetCategory(c *fiber.Ctx) error {
	category, err := h.catalog.GetCategory(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (h *CatalogController) ListSubcategories(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	includeInactive := queryBool(c, "all") && middleware.Role(c) == models.RoleAdmin
	subs, err := h.catalog.ListSubcategories(c.UserContext(), id, includeInactive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subs)
}

func (h *CatalogController) CreateCategory(c *fiber.Ctx) error {
	in, release, err := catalogForm(c)
	defer release()
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogController) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	in, release, err := catalogForm(c)
	defer release()
	if err != nil {
		return respondError(c, err)
	}
	category, err := h.catalog.UpdateCategory(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (h *CatalogController) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteCategory(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

func (h *CatalogController) CreateSubcategory(c *fiber.Ctx) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	in, release, err := catalogForm(c)
	defer release()
	if err != nil {
		return respondError(c, err)
	}
	sub, err := h.catalog.CreateSubcategory(c.UserContext(), middleware.UserID(c), categoryID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *CatalogController) UpdateSubcategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	in, release, err := catalogForm(c)
	defer release()
	if err != nil {
		return respondError(c, err)
	}
	sub, err := h.catalog.UpdateSubcategory(c.UserContext(), middleware.UserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

func (h *CatalogController) DeleteSubcategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteSubcategory(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subcategory deleted successfully"})
}
