package scanning

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fixed(text string) attempt {
	return attempt{
		name: "fixed",
		run: func(context.Context) (string, error) {
			return text, nil
		},
	}
}

func failing(err error) attempt {
	return attempt{
		name: "failing",
		run: func(context.Context) (string, error) {
			return "", err
		},
	}
}

var _ = Describe("longestText", func() {
	var (
		ctx      context.Context
		attempts []attempt
		text     string
		err      error
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	JustBeforeEach(func() {
		text, err = longestText(ctx, attempts)
	})

	When("several attempts succeed", func() {
		BeforeEach(func() {
			attempts = []attempt{
				fixed("ACME"),
				fixed("ACME CAFE\nTotal 5.00"),
				fixed("ACME CAFE"),
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep the longest transcript", func() {
			Expect(text).To(Equal("ACME CAFE\nTotal 5.00"))
		})
	})

	When("two attempts tie on length", func() {
		BeforeEach(func() {
			attempts = []attempt{fixed("first"), fixed("later")}
		})

		It("should keep the earlier one", func() {
			Expect(text).To(Equal("first"))
		})
	})

	When("some attempts fail", func() {
		BeforeEach(func() {
			attempts = []attempt{
				failing(errors.New("engine crashed")),
				fixed("ACME CAFE"),
			}
		})

		It("should ignore the failures", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("ACME CAFE"))
		})
	})

	When("every attempt fails", func() {
		var cause error

		BeforeEach(func() {
			cause = errors.New("engine crashed")
			attempts = []attempt{
				failing(errors.New("first failure")),
				failing(cause),
			}
		})

		It("should wrap the last failure", func() {
			Expect(err).To(MatchError(cause))
			Expect(err.Error()).To(ContainSubstring("all OCR attempts failed"))
		})
	})

	When("every attempt returns only whitespace", func() {
		BeforeEach(func() {
			attempts = []attempt{fixed(""), fixed("  \n ")}
		})

		It("should return ErrNoText", func() {
			Expect(err).To(MatchError(ErrNoText))
			Expect(text).To(BeEmpty())
		})
	})

	When("there are no attempts", func() {
		BeforeEach(func() {
			attempts = nil
		})

		It("should return ErrNoText", func() {
			Expect(err).To(MatchError(ErrNoText))
		})
	})

	When("the context is cancelled", func() {
		var ran bool

		BeforeEach(func() {
			ran = false
			cancelled, cancel := context.WithCancel(context.Background())
			cancel()
			ctx = cancelled
			attempts = []attempt{{
				name: "tracked",
				run: func(context.Context) (string, error) {
					ran = true
					return "text", nil
				},
			}}
		})

		It("should stop before running any attempt", func() {
			Expect(err).To(MatchError(context.Canceled))
			Expect(ran).To(BeFalse())
		})
	})
})
