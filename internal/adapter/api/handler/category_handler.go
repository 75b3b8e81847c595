package handler

import (
	"github.com/labstack/echo/v4"

	"shopkeep/internal/domain/service"
	"shopkeep/pkg/response"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

var categoryHandler *CategoryHandler

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categories)
}
