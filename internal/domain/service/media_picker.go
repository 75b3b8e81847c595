package service

import (
	"context"

	"shopkeep/internal/domain/entity"
)

type PickSource string

const (
	PickCamera  PickSource = "camera"
	PickGallery PickSource = "gallery"
)

// MediaPicker wraps the device camera/gallery pickers. A (nil, nil) return
// means the user cancelled the picker; a denied device permission surfaces
// as an error with code PERMISSION_DENIED.
type MediaPicker interface {
	PickFromCamera(ctx context.Context) (*entity.LocalFile, error)
	PickFromGallery(ctx context.Context) (*entity.LocalFile, error)
}
