package router

import (
	"github.com/labstack/echo/v4"

	"shopkeep/internal/adapter/api/handler"
)

func SetupCategoryRouter(e *echo.Echo) {
	categoryHandler := handler.GetCategoryHandler()
	e.GET("/v1/categories", categoryHandler.ListCategories)
}
