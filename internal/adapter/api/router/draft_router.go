package router

import (
	"github.com/labstack/echo/v4"

	"shopkeep/internal/adapter/api/handler"
)

func SetupDraftRouter(e *echo.Echo) {
	draftHandler := handler.GetDraftHandler()

	drafts := e.Group("/v1/drafts")
	drafts.POST("", draftHandler.OpenDraft)
	drafts.GET("/:id", draftHandler.GetDraft)
	drafts.PATCH("/:id", draftHandler.UpdateDraft)
	drafts.DELETE("/:id", draftHandler.DiscardDraft)

	drafts.POST("/:id/advance", draftHandler.Advance)
	drafts.POST("/:id/back", draftHandler.Back)

	drafts.POST("/:id/images", draftHandler.AttachImage)
	drafts.POST("/:id/images/pick", draftHandler.PickImage)
	drafts.DELETE("/:id/images/:slot", draftHandler.RemoveImage)

	drafts.POST("/:id/submit", draftHandler.SubmitDraft)
}
