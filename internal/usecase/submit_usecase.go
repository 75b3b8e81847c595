package usecase

import (
	"context"
	"fmt"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	"shopkeep/pkg/logger"
)

// ProgressFunc receives per-slot upload progress during the full submission
// path. Slot labels are "main" and "sub0".."sub3".
type ProgressFunc func(slot string, percent int)

// SubmitUseCase selects the transmission path for an assembled draft: the
// metadata-only path when no newly acquired images are pending, the full
// path (upload then submit) otherwise.
type SubmitUseCase struct {
	mediaHost  service.MediaHost
	productAPI service.ProductAPI
}

func NewSubmitUseCase(mediaHost service.MediaHost, productAPI service.ProductAPI) *SubmitUseCase {
	return &SubmitUseCase{
		mediaHost:  mediaHost,
		productAPI: productAPI,
	}
}

// Submit transmits the draft. On the full path, uploads run sequentially,
// main image first and then subs in slot order; the first failed upload
// aborts the whole submission and no product is created. Remote files
// already uploaded by an aborted submission are left as-is.
func (uc *SubmitUseCase) Submit(ctx context.Context, d *entity.ProductDraft, onProgress ProgressFunc) (*entity.Product, error) {
	if !d.Media.HasNewLocal() {
		logger.Debug("Draft %s has no new media, using metadata-only path", d.ID)
		return uc.productAPI.CreateOrUpdate(ctx, buildPayload(d, nil, nil))
	}

	logger.Debug("Draft %s has new media, using full path", d.ID)

	var mainResult *entity.UploadResult
	if d.Media.Main.HasLocal() {
		res, err := uc.mediaHost.Upload(ctx, *d.Media.Main.Local, entity.SlotMain, slotProgress(onProgress, "main"))
		if err != nil {
			return nil, err
		}
		mainResult = res
	}

	subResults := make(map[int]*entity.UploadResult)
	for i, slot := range d.Media.Subs {
		if !slot.HasLocal() {
			continue
		}
		label := fmt.Sprintf("sub%d", i)
		res, err := uc.mediaHost.Upload(ctx, *slot.Local, entity.SlotSub, slotProgress(onProgress, label))
		if err != nil {
			return nil, err
		}
		subResults[i] = res
	}

	return uc.productAPI.CreateOrUpdate(ctx, buildPayload(d, mainResult, subResults))
}

func slotProgress(onProgress ProgressFunc, slot string) service.UploadProgressFunc {
	if onProgress == nil {
		return nil
	}
	return func(percent int) {
		onProgress(slot, percent)
	}
}

// buildPayload merges freshly uploaded URLs with untouched persisted ones,
// preserving slot order.
func buildPayload(d *entity.ProductDraft, mainResult *entity.UploadResult, subResults map[int]*entity.UploadResult) service.ProductPayload {
	payload := service.ProductPayload{
		ID:          d.ProductID,
		Name:        d.Name,
		Brand:       d.Brand,
		Description: d.Description,
		Price:       d.Price,
		MRP:         d.MRP,
		TotalStock:  d.TotalStock,
		OnlineStock: d.OnlineStock,
		Channel:     d.Channel,
		CategoryID:  d.CategoryID,
		Attributes:  d.Attributes,
	}

	switch {
	case mainResult != nil:
		payload.MainImage = &service.ImageRef{URL: mainResult.URL, RemoteID: mainResult.RemoteID}
	case d.Media.Main.RemoteURL != "":
		payload.MainImage = &service.ImageRef{URL: d.Media.Main.RemoteURL, RemoteID: d.Media.Main.RemoteID}
	}

	for i, slot := range d.Media.Subs {
		ref := service.ImageRef{DisplayOrder: i + 1}
		if res, ok := subResults[i]; ok {
			ref.URL = res.URL
			ref.RemoteID = res.RemoteID
		} else if slot.RemoteURL != "" {
			ref.URL = slot.RemoteURL
			ref.RemoteID = slot.RemoteID
		} else {
			continue
		}
		payload.SubImages = append(payload.SubImages, ref)
	}

	return payload
}
