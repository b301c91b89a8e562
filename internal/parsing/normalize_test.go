package parsing

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeDigits", func() {
	DescribeTable("replacing OCR-confused letters",
		func(in, want string) {
			Expect(NormalizeDigits(in)).To(Equal(want))
		},
		Entry("O", "1O", "10"),
		Entry("S and I", "SI", "51"),
		Entry("Z B G Q", "ZBGQ", "2860"),
		Entry("lowercase is untouched", "1o", "1o"),
		Entry("digits are untouched", "12.50", "12.50"),
	)
})

var _ = Describe("ParseAmount", func() {
	DescribeTable("resolving the decimal separator",
		func(in string, want float64) {
			got, err := ParseAmount(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", want, 1e-9))
		},
		Entry("comma decimal with dot thousands", "1.234,56", 1234.56),
		Entry("dot decimal with comma thousands", "1,234.56", 1234.56),
		Entry("lone comma", "12,50", 12.50),
		Entry("lone dot", "4.50", 4.50),
		Entry("integer", "7", 7.0),
	)

	DescribeTable("rejecting non-numbers",
		func(in string) {
			_, err := ParseAmount(in)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("two dots", "1.2.3"),
		Entry("letters", "abc"),
	)
})

var _ = Describe("orDefault", func() {
	It("should return the value when there is no error", func() {
		Expect(orDefault(1)(strconv.Atoi("4"))).To(Equal(4))
	})

	It("should return the default on error", func() {
		Expect(orDefault(1)(strconv.Atoi("x"))).To(Equal(1))
	})
})

var _ = Describe("DetectCurrency", func() {
	DescribeTable("detecting",
		func(line string, want Currency) {
			Expect(DetectCurrency(line)).To(Equal(want))
		},
		Entry("euro sign", "Total €12", EUR),
		Entry("euro code", "total eur 12", EUR),
		Entry("dollar sign", "Total $5", USD),
		Entry("pound sign", "Total £5", GBP),
		Entry("rupee sign", "Total ₹50", INR),
		Entry("rs", "Total Rs. 50", INR),
		Entry("euro before dollar", "EUR 5 / $6", EUR),
		Entry("nothing", "Total 5", NoCurrency),
	)
})

var _ = Describe("majorityCurrency", func() {
	It("should pick the most frequent currency", func() {
		Expect(majorityCurrency([]string{"Total $5", "Tax £1", "Tip $1"})).To(Equal(USD))
	})

	It("should break ties by priority", func() {
		Expect(majorityCurrency([]string{"Tax £1", "Total $5"})).To(Equal(USD))
		Expect(majorityCurrency([]string{"Total ₹5", "Tax €1"})).To(Equal(EUR))
	})

	It("should return no currency when nothing matches", func() {
		Expect(majorityCurrency([]string{"Total 5"})).To(Equal(NoCurrency))
	})
})

var _ = Describe("ValidDescription", func() {
	DescribeTable("accepting items",
		func(desc string) {
			Expect(ValidDescription(desc)).To(BeTrue())
		},
		Entry("plain", "Latte"),
		Entry("two characters", "Ox"),
		Entry("with digits", "Cola 500ml"),
	)

	DescribeTable("rejecting non-items",
		func(desc string) {
			Expect(ValidDescription(desc)).To(BeFalse())
		},
		Entry("date", "12/03/2024"),
		Entry("short date", "12/03"),
		Entry("time", "12:30"),
		Entry("one character", "x"),
		Entry("empty", ""),
		Entry("cashier", "Cashier 04"),
		Entry("order", "Order #1234"),
		Entry("phone", "555-1234"),
		Entry("receipt", "RECEIPT COPY"),
		Entry("tel", "Tel"),
		Entry("invoice", "Invoice"),
		Entry("tendered", "Amount tendered"),
		Entry("change", "Change"),
	)
})
