package service

import (
	"context"

	"shopkeep/internal/domain/entity"
)

// UploadProgressFunc receives fractional progress for one upload, 0-100.
// Values never decrease within a single upload and stay below 100 until the
// host has confirmed success.
type UploadProgressFunc func(percent int)

// MediaHost uploads a single local file to the remote media host and returns
// a stable remote URL and identifier. Implementations own their retry policy
// across upload credentials.
//
// There is deliberately no Delete: a file uploaded for a submission that
// later fails is left orphaned on the host (accepted risk, pending a product
// decision on cleanup).
type MediaHost interface {
	Upload(ctx context.Context, file entity.LocalFile, kind entity.SlotKind, onProgress UploadProgressFunc) (*entity.UploadResult, error)
}
