package entity

import (
	"time"
)

type SaleChannel string

const (
	ChannelBoth    SaleChannel = "BOTH"
	ChannelOnline  SaleChannel = "ONLINE"
	ChannelOffline SaleChannel = "OFFLINE"
)

func (c SaleChannel) Valid() bool {
	return c == ChannelBoth || c == ChannelOnline || c == ChannelOffline
}

type ProductImage struct {
	URL          string `json:"url"`
	RemoteID     string `json:"remote_id"`
	DisplayOrder int    `json:"display_order"`
}

// Product is the persisted record as returned by the backend product API.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	MRP         string            `json:"mrp,omitempty"`
	TotalStock  int               `json:"total_stock"`
	OnlineStock int               `json:"online_stock"`
	Channel     SaleChannel       `json:"channel"`
	CategoryID  string            `json:"category_id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MainImage   ProductImage      `json:"main_image"`
	SubImages   []ProductImage    `json:"sub_images,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductDraft is the in-progress record assembled by the wizard. It has no
// identity of its own until submission; ProductID is set only in edit mode.
type ProductDraft struct {
	ID          string            `json:"id"`
	ProductID   string            `json:"product_id,omitempty"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	MRP         string            `json:"mrp"`
	TotalStock  int               `json:"total_stock"`
	OnlineStock int               `json:"online_stock"`
	Channel     SaleChannel       `json:"channel"`
	CategoryID  string            `json:"category_id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Media       MediaSet          `json:"media"`
}

func (d *ProductDraft) IsEdit() bool {
	return d.ProductID != ""
}

// NewDraftFromProduct seeds an edit-mode draft by copying fields and the
// persisted image references out of an existing record. Persisted images are
// not re-uploaded on submit.
func NewDraftFromProduct(id string, p *Product) *ProductDraft {
	draft := &ProductDraft{
		ID:          id,
		ProductID:   p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       p.Price,
		MRP:         p.MRP,
		TotalStock:  p.TotalStock,
		OnlineStock: p.OnlineStock,
		Channel:     p.Channel,
		CategoryID:  p.CategoryID,
		Attributes:  make(map[string]string, len(p.Attributes)),
	}
	for k, v := range p.Attributes {
		draft.Attributes[k] = v
	}

	if p.MainImage.URL != "" {
		draft.Media.Main = ImageSlot{RemoteURL: p.MainImage.URL, RemoteID: p.MainImage.RemoteID}
	}
	for _, img := range p.SubImages {
		draft.Media.Subs = append(draft.Media.Subs, ImageSlot{RemoteURL: img.URL, RemoteID: img.RemoteID})
	}
	return draft
}

// DraftUpdate is a partial update; nil fields are left untouched.
type DraftUpdate struct {
	Name        *string           `json:"name,omitempty"`
	Brand       *string           `json:"brand,omitempty"`
	Description *string           `json:"description,omitempty"`
	Price       *string           `json:"price,omitempty"`
	MRP         *string           `json:"mrp,omitempty"`
	TotalStock  *int              `json:"total_stock,omitempty"`
	OnlineStock *int              `json:"online_stock,omitempty"`
	Channel     *SaleChannel      `json:"channel,omitempty"`
	CategoryID  *string           `json:"category_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type CategoryAttribute struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type Category struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Attributes []CategoryAttribute `json:"attributes,omitempty"`
}
