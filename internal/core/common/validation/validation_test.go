package validation

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/wirabuild/construction-management/internal"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("collects one entry per failing field", func() {
		validator := NewValidator()
		validator.Field("name", "").Required()
		validator.Field("budget", int64(-5)).MinInt(0, errors.ErrCodeInvalidAmount)

		appErr := validator.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("name"))
		Expect(details.Errors[1].Field).To(Equal("budget"))
	})

	It("returns nil when every field passes", func() {
		validator := NewValidator()
		validator.Field("name", "Gudang Timur").Required().MaxLength(200)

		Expect(validator.Validate()).To(BeNil())
	})

	It("treats whitespace-only strings as missing", func() {
		validator := NewValidator()
		validator.Field("name", "   ").Required()

		Expect(validator.Validate()).NotTo(BeNil())
	})
})

var _ = Describe("Domain helpers", func() {
	It("bounds reimbursement amounts", func() {
		Expect(ValidateReimbursementAmount(125000)).To(BeNil())
		Expect(ValidateReimbursementAmount(0)).NotTo(BeNil())
		Expect(ValidateReimbursementAmount(5000)).NotTo(BeNil())
		Expect(ValidateReimbursementAmount(600000000)).NotTo(BeNil())
	})

	It("accepts only known roles", func() {
		Expect(ValidateRole("admin")).To(BeNil())
		Expect(ValidateRole("staff")).To(BeNil())
		Expect(ValidateRole("client")).To(BeNil())
		Expect(ValidateRole("owner")).NotTo(BeNil())
		Expect(ValidateRole("")).NotTo(BeNil())
	})

	It("bounds project names", func() {
		Expect(ValidateProjectName("Rumah Tipe 45")).To(BeNil())
		Expect(ValidateProjectName("")).NotTo(BeNil())
	})
})
