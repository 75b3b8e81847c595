package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"shopkeep/internal/domain/entity"
	"shopkeep/internal/domain/service"
	apperrors "shopkeep/pkg/errors"
	"shopkeep/pkg/logger"

	"github.com/google/uuid"
)

// WizardUseCase owns the 4-step product submission wizard: the in-memory
// draft, step gating, validation error pruning, and the final submission
// sequence. It is the only owner of wizard state; every other component in
// the pipeline is pure or stateless per call.
type WizardUseCase struct {
	mu       sync.Mutex
	sessions map[string]*session

	submitter *SubmitUseCase
	picker    service.MediaPicker
}

type session struct {
	mu     sync.Mutex
	draft  *entity.ProductDraft
	state  entity.WizardState
	errors entity.ValidationErrorSet
}

type WizardView struct {
	Draft  *entity.ProductDraft      `json:"draft"`
	State  entity.WizardState        `json:"state"`
	Errors entity.ValidationErrorSet `json:"errors,omitempty"`
}

// NewWizardUseCase wires the submission path and the optional media picker.
// picker may be nil when files reach the wizard pre-staged (the HTTP facade
// stages uploads itself and calls AttachImage directly).
func NewWizardUseCase(submitter *SubmitUseCase, picker service.MediaPicker) *WizardUseCase {
	return &WizardUseCase{
		sessions:  make(map[string]*session),
		submitter: submitter,
		picker:    picker,
	}
}

// Open starts a wizard session. With existing == nil the draft starts empty
// (create mode); otherwise fields and persisted image references are copied
// out of the record (edit mode).
func (uc *WizardUseCase) Open(ctx context.Context, existing *entity.Product) (*WizardView, error) {
	id := uuid.New().String()

	var draft *entity.ProductDraft
	if existing != nil {
		draft = entity.NewDraftFromProduct(id, existing)
	} else {
		draft = &entity.ProductDraft{
			ID:         id,
			Channel:    entity.ChannelBoth,
			Attributes: make(map[string]string),
		}
	}

	s := &session{
		draft:  draft,
		state:  entity.WizardState{Step: entity.StepBasicInfo},
		errors: entity.ValidationErrorSet{},
	}

	uc.mu.Lock()
	uc.sessions[id] = s
	uc.mu.Unlock()

	logger.Debug("Opened wizard session %s (edit=%v)", id, draft.IsEdit())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

func (uc *WizardUseCase) Get(ctx context.Context, id string) (*WizardView, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Discard drops a session, e.g. when the user navigates away.
func (uc *WizardUseCase) Discard(id string) {
	uc.mu.Lock()
	delete(uc.sessions, id)
	uc.mu.Unlock()
}

// ApplyUpdate is the single mutation point for the draft. Price-like fields
// go through the numeric cleaning rules and are dropped silently when
// rejected; every field actually touched has its validation error pruned,
// and the online stock is clamped down whenever it would exceed total stock.
func (uc *WizardUseCase) ApplyUpdate(ctx context.Context, id string, u entity.DraftUpdate) (*WizardView, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitting {
		return nil, apperrors.BadRequest("Draft cannot be edited while submitting", nil)
	}

	d := s.draft
	var touched []string

	if u.Name != nil {
		d.Name = CleanName(*u.Name)
		touched = append(touched, entity.FieldName)
	}
	if u.Brand != nil {
		d.Brand = CleanBrand(*u.Brand)
	}
	if u.Description != nil {
		d.Description = CleanDescription(*u.Description)
	}
	if u.Price != nil {
		if cleaned, ok := CleanDecimal(*u.Price); ok {
			d.Price = cleaned
			touched = append(touched, entity.FieldPrice)
		}
	}
	if u.MRP != nil {
		if cleaned, ok := CleanDecimal(*u.MRP); ok {
			d.MRP = cleaned
			touched = append(touched, entity.FieldMRP)
		}
	}

	stockTouched := false
	if u.TotalStock != nil {
		d.TotalStock = *u.TotalStock
		if d.TotalStock < 0 {
			d.TotalStock = 0
		}
		stockTouched = true
	}
	if u.OnlineStock != nil {
		d.OnlineStock = *u.OnlineStock
		if d.OnlineStock < 0 {
			d.OnlineStock = 0
		}
		stockTouched = true
	}
	// Invariant: online stock never exceeds total stock
	if d.OnlineStock > d.TotalStock {
		d.OnlineStock = d.TotalStock
	}
	if stockTouched {
		touched = append(touched, entity.FieldStock)
	}

	if u.Channel != nil && u.Channel.Valid() {
		d.Channel = *u.Channel
	}
	if u.CategoryID != nil {
		d.CategoryID = *u.CategoryID
		touched = append(touched, entity.FieldCategory)
	}
	if u.Attributes != nil {
		if d.Attributes == nil {
			d.Attributes = make(map[string]string, len(u.Attributes))
		}
		for k, v := range u.Attributes {
			d.Attributes[k] = v
		}
	}

	s.errors.Clear(touched...)
	return s.view(), nil
}

// CanAdvance is the pure gating predicate for leaving the given step.
func CanAdvance(d *entity.ProductDraft, step entity.WizardStep) bool {
	switch step {
	case entity.StepBasicInfo:
		if strings.TrimSpace(d.Name) == "" {
			return false
		}
		_, ok := ParsePositiveDecimal(d.Price)
		return ok
	case entity.StepStock:
		return d.OnlineStock <= d.TotalStock
	case entity.StepCategory:
		return d.CategoryID != ""
	case entity.StepMedia:
		return d.Media.HasMainImage()
	default:
		return false
	}
}

// Advance moves forward one step when the current step's gate passes.
// A blocked advance is not an error: moved is false and the state is
// unchanged.
func (uc *WizardUseCase) Advance(ctx context.Context, id string) (*WizardView, bool, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitting {
		return nil, false, apperrors.BadRequest("Draft cannot be edited while submitting", nil)
	}
	if s.state.Step >= entity.StepMedia || !CanAdvance(s.draft, s.state.Step) {
		return s.view(), false, nil
	}
	s.state.Step++
	return s.view(), true, nil
}

// Back is unconditional from any step after the first.
func (uc *WizardUseCase) Back(ctx context.Context, id string) (*WizardView, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitting {
		return nil, apperrors.BadRequest("Draft cannot be edited while submitting", nil)
	}
	if s.state.Step > entity.StepBasicInfo {
		s.state.Step--
	}
	return s.view(), nil
}

// AttachImage places a pre-staged local file into the main slot or the next
// free sub slot. A fifth sub image is rejected without mutating the set.
func (uc *WizardUseCase) AttachImage(ctx context.Context, id string, kind entity.SlotKind, f entity.LocalFile) (*WizardView, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitting {
		return nil, apperrors.BadRequest("Draft cannot be edited while submitting", nil)
	}

	switch kind {
	case entity.SlotMain:
		s.draft.Media.SetMainLocal(f)
		s.errors.Clear(entity.FieldMainImage)
	case entity.SlotSub:
		if !s.draft.Media.AddSubLocal(f) {
			return nil, apperrors.BadRequest(fmt.Sprintf("Cannot attach more than %d sub images", entity.MaxSubImages), nil)
		}
	default:
		return nil, apperrors.BadRequest("Unknown image slot", nil)
	}
	return s.view(), nil
}

// PickAndAttach drives the device picker and attaches the result. A
// cancelled picker leaves the draft untouched.
func (uc *WizardUseCase) PickAndAttach(ctx context.Context, id string, kind entity.SlotKind, source service.PickSource) (*WizardView, error) {
	if uc.picker == nil {
		return nil, apperrors.Internal("Media picker is not configured", nil)
	}

	var (
		file *entity.LocalFile
		err  error
	)
	switch source {
	case service.PickCamera:
		file, err = uc.picker.PickFromCamera(ctx)
	case service.PickGallery:
		file, err = uc.picker.PickFromGallery(ctx)
	default:
		return nil, apperrors.BadRequest("Unknown picker source", nil)
	}
	if err != nil {
		return nil, err
	}
	if file == nil {
		// User cancelled the picker
		return uc.Get(ctx, id)
	}
	return uc.AttachImage(ctx, id, kind, *file)
}

// RemoveImage clears the main slot or removes one sub slot ("main",
// "sub0".."sub3").
func (uc *WizardUseCase) RemoveImage(ctx context.Context, id string, slot string) (*WizardView, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Submitting {
		return nil, apperrors.BadRequest("Draft cannot be edited while submitting", nil)
	}

	if slot == "main" {
		s.draft.Media.ClearMain()
		return s.view(), nil
	}

	var idx int
	if _, err := fmt.Sscanf(slot, "sub%d", &idx); err != nil || !s.draft.Media.RemoveSub(idx) {
		return nil, apperrors.BadRequest("Unknown image slot", nil)
	}
	return s.view(), nil
}

// Submit runs the terminal action from the media step: one full invariant
// pass, then delegation to the submission strategy. On failure the wizard
// stays on the media step with the draft intact so the user can retry; on
// success the session is discarded.
func (uc *WizardUseCase) Submit(ctx context.Context, id string) (*entity.Product, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.Step != entity.StepMedia {
		s.mu.Unlock()
		return nil, apperrors.BadRequest("Submit is only available from the media step", nil)
	}
	if s.state.Submitting {
		s.mu.Unlock()
		return nil, apperrors.BadRequest("A submission is already in progress", nil)
	}

	errs := CheckDraft(s.draft)
	s.errors = errs
	if len(errs) > 0 {
		first := errs.First()
		s.mu.Unlock()
		logger.Debug("Submission of draft %s blocked by validation: %s", id, first)
		return nil, apperrors.Validation(first)
	}

	s.state.Submitting = true
	s.state.Uploading = s.draft.Media.HasNewLocal()
	s.state.Progress = make(map[string]int)
	draft := s.draft
	s.mu.Unlock()

	product, submitErr := uc.submitter.Submit(ctx, draft, func(slot string, percent int) {
		s.mu.Lock()
		s.state.Progress[slot] = percent
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.state.Submitting = false
	s.state.Uploading = false
	if submitErr != nil {
		s.state.Progress = nil
		s.mu.Unlock()
		logger.Error("Submission of draft %s failed: %v", id, submitErr)
		return nil, translate(submitErr)
	}
	s.mu.Unlock()

	uc.Discard(id)
	logger.Info("Draft %s submitted as product %s", id, product.ID)
	return product, nil
}

func (uc *WizardUseCase) session(id string) (*session, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[id]
	uc.mu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("Draft", nil)
	}
	return s, nil
}

// translate is the single point turning pipeline errors into user-facing
// ones. Classified errors pass through; anything unexpected becomes a
// generic internal error.
func translate(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal("Submission failed", err)
}

// view must be called with the session lock held. Everything reachable from
// the returned view is copied: handlers marshal it after the lock is
// released, so nothing may alias the live session.
func (s *session) view() *WizardView {
	draft := *s.draft
	if s.draft.Attributes != nil {
		draft.Attributes = make(map[string]string, len(s.draft.Attributes))
		for k, v := range s.draft.Attributes {
			draft.Attributes[k] = v
		}
	}
	if s.draft.Media.Subs != nil {
		draft.Media.Subs = make([]entity.ImageSlot, len(s.draft.Media.Subs))
		copy(draft.Media.Subs, s.draft.Media.Subs)
	}

	state := s.state
	if s.state.Progress != nil {
		state.Progress = make(map[string]int, len(s.state.Progress))
		for k, v := range s.state.Progress {
			state.Progress[k] = v
		}
	}

	errs := make(entity.ValidationErrorSet, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}

	return &WizardView{Draft: &draft, State: state, Errors: errs}
}
