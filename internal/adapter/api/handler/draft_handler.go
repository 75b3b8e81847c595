package handler

import (
	stderrors "errors"
	"io"

	"github.com/labstack/echo/v4"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	"shopkeep/internal/usecase"
	"shopkeep/pkg/errors"
	"shopkeep/pkg/logger"
	"shopkeep/pkg/response"
)

type DraftHandler struct {
	wizard      *usecase.WizardUseCase
	maxFileSize int64
}

var draftHandler *DraftHandler

func NewDraftHandler(wizard *usecase.WizardUseCase) *DraftHandler {
	return &DraftHandler{
		wizard:      wizard,
		maxFileSize: 5 * 1024 * 1024,
	}
}

func GetDraftHandler() *DraftHandler {
	return draftHandler
}

type openDraftRequest struct {
	// Product seeds an edit-mode draft; leave empty to create from scratch.
	Product *entity.Product `json:"product,omitempty"`
}

func (h *DraftHandler) OpenDraft(c echo.Context) error {
	var req openDraftRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	view, err := h.wizard.Open(c.Request().Context(), req.Product)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, view)
}

func (h *DraftHandler) GetDraft(c echo.Context) error {
	view, err := h.wizard.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

type updateDraftRequest struct {
	Name        *string           `json:"name"`
	Brand       *string           `json:"brand"`
	Description *string           `json:"description"`
	Price       *string           `json:"price"`
	MRP         *string           `json:"mrp"`
	TotalStock  *string           `json:"total_stock"`
	OnlineStock *string           `json:"online_stock"`
	Channel     *string           `json:"channel" validate:"omitempty,oneof=BOTH ONLINE OFFLINE"`
	CategoryID  *string           `json:"category_id"`
	Attributes  map[string]string `json:"attributes"`
}

func (h *DraftHandler) UpdateDraft(c echo.Context) error {
	var req updateDraftRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	update := entity.DraftUpdate{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		MRP:         req.MRP,
		CategoryID:  req.CategoryID,
		Attributes:  req.Attributes,
	}
	// Stock inputs arrive as raw strings; non-numeric coerces to zero
	if req.TotalStock != nil {
		n := usecase.CleanStock(*req.TotalStock)
		update.TotalStock = &n
	}
	if req.OnlineStock != nil {
		n := usecase.CleanStock(*req.OnlineStock)
		update.OnlineStock = &n
	}
	if req.Channel != nil {
		channel := entity.SaleChannel(*req.Channel)
		update.Channel = &channel
	}

	view, err := h.wizard.ApplyUpdate(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

type advanceResponse struct {
	Moved bool                `json:"moved"`
	View  *usecase.WizardView `json:"view"`
}

func (h *DraftHandler) Advance(c echo.Context) error {
	view, moved, err := h.wizard.Advance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, advanceResponse{Moved: moved, View: view})
}

func (h *DraftHandler) Back(c echo.Context) error {
	view, err := h.wizard.Back(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

// AttachImage accepts a staged image file from the client and places it into
// the requested slot ("main" or "sub").
func (h *DraftHandler) AttachImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest("File size exceeds maximum allowed (5MB)", nil))
	}

	mimeType := file.Header.Get("Content-Type")
	if !isAllowedImageType(mimeType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	kind := entity.SlotKind(c.FormValue("slot"))
	if kind != entity.SlotMain && kind != entity.SlotSub {
		return response.Error(c, errors.BadRequest("slot must be main or sub", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize))
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}

	local := entity.LocalFile{
		Name:     file.Filename,
		MimeType: mimeType,
		Size:     file.Size,
		Data:     data,
	}

	view, err := h.wizard.AttachImage(c.Request().Context(), c.Param("id"), kind, local)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

type pickImageRequest struct {
	Slot   string `json:"slot" validate:"required,oneof=main sub"`
	Source string `json:"source" validate:"required,oneof=camera gallery"`
}

func (h *DraftHandler) PickImage(c echo.Context) error {
	var req pickImageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.wizard.PickAndAttach(c.Request().Context(), c.Param("id"), entity.SlotKind(req.Slot), service.PickSource(req.Source))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

func (h *DraftHandler) RemoveImage(c echo.Context) error {
	view, err := h.wizard.RemoveImage(c.Request().Context(), c.Param("id"), c.Param("slot"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

func (h *DraftHandler) SubmitDraft(c echo.Context) error {
	id := c.Param("id")
	product, err := h.wizard.Submit(c.Request().Context(), id)
	if err != nil {
		logger.Debug("Submit of draft %s rejected: %v", id, err)
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Code == errors.CodeValidation {
			// Ship the whole field set so the client can mark inputs
			if view, viewErr := h.wizard.Get(c.Request().Context(), id); viewErr == nil {
				return response.ErrorWithFields(c, appErr.Message, view.Errors)
			}
		}
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *DraftHandler) DiscardDraft(c echo.Context) error {
	h.wizard.Discard(c.Param("id"))
	return response.Success(c, map[string]string{"status": "discarded"})
}

func isAllowedImageType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
