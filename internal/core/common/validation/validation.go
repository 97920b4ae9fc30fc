package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/user-management/internal"
	"github.com/go-playground/validator/v10"
)

var tagValidator = validator.New()

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
	// stopOnFirst keeps a missing value from also reporting format errors.
	stopOnFirst bool
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:   name,
		Value:       value,
		Validators:  make([]ValidatorFunc, 0),
		stopOnFirst: true,
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("The %s field is required.", fv.label()), errors.ErrCodeRequired)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(fmt.Sprintf("The %s field is required.", fv.label()), errors.ErrCodeRequired)
			}
		case int64:
			if v == 0 {
				return fv.fail(fmt.Sprintf("The %s field is required.", fv.label()), errors.ErrCodeRequired)
			}
		case nil:
			return fv.fail(fmt.Sprintf("The %s field is required.", fv.label()), errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		if err := tagValidator.Var(v, "email"); err != nil {
			return fv.fail(fmt.Sprintf("The %s field must be a valid email address.", fv.label()), errors.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

// MinLength and MaxLength count characters, not bytes.
func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) < min {
				return fv.fail(fmt.Sprintf("The %s field must be at least %d characters.", fv.label(), min), errors.ErrCodeTooShort)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) > max {
				return fv.fail(fmt.Sprintf("The %s field must not be greater than %d characters.", fv.label(), max), errors.ErrCodeTooLong)
			}
		}
		return nil
	})
	return fv
}

// MaxBytes bounds the encoded size, e.g. bcrypt only reads the first 72 bytes.
func (fv *FieldValidator) MaxBytes(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) > max {
				return fv.fail(fmt.Sprintf("The %s field must not be greater than %d bytes.", fv.label(), max), errors.ErrCodeTooLong)
			}
		}
		return nil
	})
	return fv
}

// Confirmed checks that confirmation equals the field value.
func (fv *FieldValidator) Confirmed(confirmation string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if v != confirmation {
				return fv.fail(fmt.Sprintf("The %s field confirmation does not match.", fv.label()), errors.ErrCodeConfirmationMismatch)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("The selected %s is invalid.", fv.label()), errors.ErrCodeInvalidStatus)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// All reports every failing rule for the field instead of only the first one.
func (fv *FieldValidator) All() *FieldValidator {
	fv.stopOnFirst = false
	return fv
}

func (fv *FieldValidator) label() string {
	return strings.ReplaceAll(fv.FieldName, "_", " ")
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}

			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}

			if field.stopOnFirst {
				break
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError(validationErrors[0].Message, errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// Merge folds additional field errors (e.g. a uniqueness lookup) into a validation result.
func Merge(base *errors.AppError, extra ...errors.ValidationError) *errors.AppError {
	if len(extra) == 0 {
		return base
	}
	var all []errors.ValidationError
	if base != nil {
		if details, ok := base.Details.(errors.ValidationErrors); ok {
			all = append(all, details.Errors...)
		}
	}
	all = append(all, extra...)
	return errors.NewValidationError(all[0].Message, errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: all})
}
