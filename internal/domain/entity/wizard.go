package entity

type WizardStep int

const (
	StepBasicInfo WizardStep = 1
	StepStock     WizardStep = 2
	StepCategory  WizardStep = 3
	StepMedia     WizardStep = 4
)

// WizardState is the transient state of one wizard session. Progress maps
// slot labels ("main", "sub0"..) to upload percent and is populated only
// while a submission is uploading.
type WizardState struct {
	Step       WizardStep     `json:"step"`
	Submitting bool           `json:"submitting"`
	Uploading  bool           `json:"uploading"`
	Progress   map[string]int `json:"progress,omitempty"`
}

// Field keys used in ValidationErrorSet.
const (
	FieldName      = "name"
	FieldPrice     = "price"
	FieldMRP       = "mrp"
	FieldStock     = "stock"
	FieldCategory  = "category"
	FieldMainImage = "mainImage"
)

// fieldOrder is the surfacing priority: the first populated entry is the
// message shown to the user when a submit is rejected.
var fieldOrder = []string{FieldName, FieldPrice, FieldMRP, FieldStock, FieldCategory, FieldMainImage}

// ValidationErrorSet maps field keys to human-readable messages. It is
// rebuilt in full on every submit attempt and pruned per field as the user
// edits.
type ValidationErrorSet map[string]string

func (s ValidationErrorSet) Set(field, message string) {
	s[field] = message
}

func (s ValidationErrorSet) Clear(fields ...string) {
	for _, f := range fields {
		delete(s, f)
	}
}

func (s ValidationErrorSet) First() string {
	for _, f := range fieldOrder {
		if msg, ok := s[f]; ok {
			return msg
		}
	}
	for _, msg := range s {
		return msg
	}
	return ""
}
