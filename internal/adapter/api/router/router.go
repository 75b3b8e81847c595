package router

import (
	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo) {
	SetupDraftRouter(e)
	SetupCategoryRouter(e)
	SetupHealthRouter(e)
}
