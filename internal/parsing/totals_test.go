package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseTotals", func() {
	var (
		lines  []string
		totals Totals
	)

	JustBeforeEach(func() {
		totals = ParseTotals(lines)
	})

	When("every field is present", func() {
		BeforeEach(func() {
			lines = []string{"Subtotal $20.00", "Tax $1.60", "Service charge $2.00", "Total $23.60"}
		})

		It("should fill each field", func() {
			Expect(*totals.Subtotal).To(Equal(Money(20.00)))
			Expect(*totals.Tax).To(Equal(Money(1.60)))
			Expect(*totals.ServiceCharge).To(Equal(Money(2.00)))
			Expect(*totals.Total).To(Equal(Money(23.60)))
		})

		It("should detect the currency", func() {
			Expect(totals.Currency).To(Equal(USD))
		})
	})

	When("a field appears twice", func() {
		BeforeEach(func() {
			lines = []string{"Total 10.00", "Total 12.00"}
		})

		It("should keep the last value", func() {
			Expect(*totals.Total).To(Equal(Money(12.00)))
		})
	})

	When("a line says total but no other class", func() {
		BeforeEach(func() {
			lines = []string{"Grand Total: 45.10"}
		})

		It("should only fill total", func() {
			Expect(*totals.Total).To(Equal(Money(45.10)))
			Expect(totals.Subtotal).To(BeNil())
			Expect(totals.Tax).To(BeNil())
			Expect(totals.ServiceCharge).To(BeNil())
		})
	})

	When("keywords overlap", func() {
		BeforeEach(func() {
			lines = []string{"Taxable amount 50.00", "VAT 10.00", "SVC 5.00"}
		})

		It("should check subtotal before tax and tax before service", func() {
			Expect(*totals.Subtotal).To(Equal(Money(50.00)))
			Expect(*totals.Tax).To(Equal(Money(10.00)))
			Expect(*totals.ServiceCharge).To(Equal(Money(5.00)))
		})
	})

	When("amounts use European separators", func() {
		BeforeEach(func() {
			lines = []string{"Summe Total 1.234,56 EUR"}
		})

		It("should resolve the decimal point", func() {
			Expect(float64(*totals.Total)).To(BeNumerically("~", 1234.56, 1e-9))
			Expect(totals.Currency).To(Equal(EUR))
		})
	})

	When("a line has no amount", func() {
		BeforeEach(func() {
			lines = []string{"TOTAL", "Amount due"}
		})

		It("should leave every field and the currency unset", func() {
			Expect(totals.Total).To(BeNil())
			Expect(totals.Currency).To(Equal(NoCurrency))
		})
	})

	When("currencies disagree", func() {
		BeforeEach(func() {
			lines = []string{"Subtotal £4.00", "Tax £0.80", "Total $4.80"}
		})

		It("should take the majority", func() {
			Expect(totals.Currency).To(Equal(GBP))
		})
	})
})
