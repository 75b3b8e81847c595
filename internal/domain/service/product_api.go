package service

import (
	"context"

	"shopkeep/internal/domain/entity"
)

type ImageRef struct {
	URL          string `json:"url"`
	RemoteID     string `json:"remote_id,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// ProductPayload is the assembled submission record. Image fields carry only
// remote URLs: either freshly uploaded or untouched persisted ones. A payload
// with no image refs at all is the metadata-only transmission.
type ProductPayload struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Brand       string             `json:"brand,omitempty"`
	Description string             `json:"description,omitempty"`
	Price       string             `json:"price"`
	MRP         string             `json:"mrp,omitempty"`
	TotalStock  int                `json:"total_stock"`
	OnlineStock int                `json:"online_stock"`
	Channel     entity.SaleChannel `json:"channel"`
	CategoryID  string             `json:"category_id"`
	Attributes  map[string]string  `json:"attributes,omitempty"`
	MainImage   *ImageRef          `json:"main_image,omitempty"`
	SubImages   []ImageRef         `json:"sub_images,omitempty"`
}

// ProductAPI is the backend product service. CreateOrUpdate creates when
// payload.ID is empty and updates otherwise; each call is an independent
// transmission, there is no client-side dedup of repeat submissions.
type ProductAPI interface {
	CreateOrUpdate(ctx context.Context, payload ProductPayload) (*entity.Product, error)
}
