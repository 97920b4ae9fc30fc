package validation_test

import (
	"strings"
	"testing"

	errors "github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func fieldErrors(appErr *errors.AppError) []errors.ValidationError {
	details, ok := appErr.Details.(errors.ValidationErrors)
	Expect(ok).To(BeTrue())
	return details.Errors
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "John").Required().MaxLength(255)
		v.Field("email", "john@example.com").Required().Email()
		v.Field("password", "secret123").Required().MinLength(8).Confirmed("secret123")

		Expect(v.Validate()).To(BeNil())
	})

	It("reports only the first failing rule per field", func() {
		v := validation.NewValidator()
		v.Field("email", "").Required().Email()

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		errs := fieldErrors(appErr)
		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("email"))
		Expect(errs[0].Code).To(Equal(string(errors.ErrCodeRequired)))
	})

	It("collects errors across fields with 422 status", func() {
		v := validation.NewValidator()
		v.Field("name", strings.Repeat("a", 256)).Required().MaxLength(255)
		v.Field("email", "not-an-email").Required().Email()
		v.Field("password", "short").Required().MinLength(8)

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.StatusCode).To(Equal(422))
		Expect(appErr.Code).To(Equal(errors.ErrCodeValidationFailed))

		errs := fieldErrors(appErr)
		Expect(errs).To(HaveLen(3))
		Expect(errs[0].Code).To(Equal(string(errors.ErrCodeTooLong)))
		Expect(errs[1].Code).To(Equal(string(errors.ErrCodeInvalidEmail)))
		Expect(errs[2].Code).To(Equal(string(errors.ErrCodeTooShort)))
	})

	It("flags a mismatched confirmation", func() {
		v := validation.NewValidator()
		v.Field("password", "secret123").Confirmed("secret124")

		errs := fieldErrors(v.Validate())
		Expect(errs[0].Code).To(Equal(string(errors.ErrCodeConfirmationMismatch)))
		Expect(errs[0].Message).To(Equal("The password field confirmation does not match."))
	})

	It("counts characters rather than bytes", func() {
		v := validation.NewValidator()
		v.Field("name", "ééééé").MaxLength(5)
		Expect(v.Validate()).To(BeNil())
	})

	It("rejects values outside the allowed set", func() {
		v := validation.NewValidator()
		v.Field("status", "archived").OneOf("active", "deactivated", "deleted")
		Expect(v.Validate()).NotTo(BeNil())
	})

	It("merges extra field errors into an existing result", func() {
		extra := errors.ValidationError{Field: "email", Message: "The email has already been taken.", Code: string(errors.ErrCodeEmailTaken)}

		merged := validation.Merge(nil, extra)
		Expect(merged).NotTo(BeNil())
		Expect(fieldErrors(merged)).To(ConsistOf(extra))

		v := validation.NewValidator()
		v.Field("name", "").Required()
		merged = validation.Merge(v.Validate(), extra)
		Expect(fieldErrors(merged)).To(HaveLen(2))
	})
})
