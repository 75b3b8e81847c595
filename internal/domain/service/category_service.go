package service

import (
	"context"

	"shopkeep/internal/domain/entity"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
}
