// Package validation performs local input validation for composed
// activities, before any network call is made.
package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/orgball2608/community-feed-engine/internal/domain"
)

// FieldError describes one field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Validator validates activity drafts.
type Validator struct {
	cli *validator.Validate
}

// New initializes and returns a new Validator.
func New() *Validator {
	return &Validator{
		cli: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *Validator) formatError(err error) []FieldError {
	errs := make([]FieldError, 0)
	for _, fe := range err.(validator.ValidationErrors) {
		errs = append(errs, FieldError{
			Field:   fe.StructField(),
			Message: fe.Error(),
		})
	}
	return errs
}

// ValidateDraft checks a draft's tag-level rules plus the cross-field
// media rules: a MEDIA draft carries either a single upload or a multi
// upload according to its upload mode, never both.
func (v *Validator) ValidateDraft(d domain.ActivityDraft) []FieldError {
	var errs []FieldError
	if err := v.cli.Struct(d); err != nil {
		errs = v.formatError(err)
	}

	if d.ContentType == domain.ContentTypeMedia {
		switch d.UploadMode {
		case domain.UploadModeSingle:
			if len(d.MultiMediaURLs) > 0 {
				errs = append(errs, FieldError{
					Field:   "MultiMediaURLs",
					Message: "multi-media uploads are not accepted in single upload mode",
				})
			}
		case domain.UploadModeMulti:
			if d.SingleMediaURL != "" {
				errs = append(errs, FieldError{
					Field:   "SingleMediaURL",
					Message: "a single-media upload is not accepted in multi upload mode",
				})
			}
		default:
			errs = append(errs, FieldError{
				Field:   "UploadMode",
				Message: "an upload mode is required for media drafts",
			})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
