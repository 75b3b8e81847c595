package handler

import (
	"shopkeep/internal/domain/service"
	"shopkeep/internal/usecase"
)

func Setup(wizardUseCase *usecase.WizardUseCase, categoryService service.CategoryService) {
	draftHandler = NewDraftHandler(wizardUseCase)
	categoryHandler = NewCategoryHandler(categoryService)
	healthHandler = NewHealthHandler()
}
