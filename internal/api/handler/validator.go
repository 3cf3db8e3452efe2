package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// RequestValidationError lists every field that failed its transport-level
// constraint. It renders as 400 {"message":"Request Validation errors","errors":[...]}.
type RequestValidationError struct {
	Errors []string
}

func (e *RequestValidationError) Error() string {
	return "request validation errors: " + strings.Join(e.Errors, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// It registers the card-specific tags cardcolor and cardstatus, which defer to
// the same domain rules the service enforces.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("cardcolor", func(fl validator.FieldLevel) bool {
		return domain.ValidateColor(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("cardstatus", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseStatus(fl.Field().String())
		return err == nil
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &RequestValidationError{Errors: msgs}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + ": mandatory field is required"
	case "email":
		return field + ": must be a valid email"
	case "min":
		return fmt.Sprintf("%s: must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
	case "cardcolor":
		return field + ": invalid format, should be 6 alphanumeric characters prefixed with #"
	case "cardstatus":
		return field + ": invalid format, should be one of TODO, IN_PROGRESS, DONE"
	default:
		return fmt.Sprintf("%s: failed validation (%s)", field, fe.Tag())
	}
}
