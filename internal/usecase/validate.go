package usecase

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"shopkeep/internal/domain/entity"
)

const (
	maxNameLength        = 100
	minNameLength        = 3
	maxBrandLength       = 50
	maxDescriptionLength = 500
)

// CleanName trims and enforces the hard length cap. Emptiness and the
// minimum length are submit-time concerns, not keystroke concerns.
func CleanName(raw string) string {
	return truncateRunes(strings.TrimSpace(raw), maxNameLength)
}

func CleanBrand(raw string) string {
	return truncateRunes(strings.TrimSpace(raw), maxBrandLength)
}

// CleanDescription truncates rather than rejects past the soft cap.
func CleanDescription(raw string) string {
	return truncateRunes(raw, maxDescriptionLength)
}

// truncateRunes caps s at max characters, never cutting mid-rune. Length
// limits are character counts, not byte counts.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// CleanDecimal strips everything except digits and a single decimal point
// from a price-like input. It returns ok=false, meaning the keystroke is
// dropped with no state change, when the input would carry a second decimal
// point or more than two fractional digits.
func CleanDecimal(raw string) (string, bool) {
	var b strings.Builder
	dot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if dot {
				return "", false
			}
			dot = true
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if i := strings.IndexByte(cleaned, '.'); i >= 0 && len(cleaned)-i-1 > 2 {
		return "", false
	}
	return cleaned, true
}

// ParsePositiveDecimal reports the numeric value of a cleaned decimal string
// and whether it parses as a number greater than zero.
func ParsePositiveDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// CleanStock parses a stock quantity; non-numeric or negative input coerces
// to zero.
func CleanStock(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CheckDraft is the one-pass pre-submission invariant check. It rebuilds the
// complete error set and has no side effects on the draft; the caller halts
// submission when the set is non-empty. Main-image presence is only enforced
// when creating a new product.
func CheckDraft(d *entity.ProductDraft) entity.ValidationErrorSet {
	errs := entity.ValidationErrorSet{}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		errs.Set(entity.FieldName, "Product name is required")
	} else if utf8.RuneCountInString(name) < minNameLength {
		errs.Set(entity.FieldName, "Product name must be at least 3 characters")
	}

	price, priceOK := ParsePositiveDecimal(d.Price)
	if d.Price == "" {
		errs.Set(entity.FieldPrice, "Price is required")
	} else if !priceOK {
		errs.Set(entity.FieldPrice, "Price must be greater than 0")
	}

	if d.MRP != "" {
		mrp, mrpOK := ParsePositiveDecimal(d.MRP)
		if !mrpOK {
			errs.Set(entity.FieldMRP, "MRP must be a valid amount")
		} else if priceOK && mrp < price {
			errs.Set(entity.FieldMRP, "MRP must be greater than or equal to price")
		}
	}

	if d.OnlineStock > d.TotalStock {
		errs.Set(entity.FieldStock, "Online stock cannot exceed total stock")
	}

	if d.CategoryID == "" {
		errs.Set(entity.FieldCategory, "Please select a category")
	}

	if !d.IsEdit() && !d.Media.HasMainImage() {
		errs.Set(entity.FieldMainImage, "A main product image is required")
	}

	return errs
}
