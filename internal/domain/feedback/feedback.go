package feedback

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/foodyham/internal/apperror"
)

var (
	ErrIncomplete   = apperror.Validation("Please provide a rating and a comment.")
	ErrInvalidEmail = apperror.Validation("Please enter a valid email address")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Feedback is the body of POST /feedback. Name and email are optional.
type Feedback struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

// Normalize trims whitespace from the free-text fields
func (f Feedback) Normalize() Feedback {
	f.Comment = strings.TrimSpace(f.Comment)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

func (f Feedback) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Email" {
		return ErrInvalidEmail
	}
	return ErrIncomplete
}
