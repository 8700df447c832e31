package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
)

var _ = Describe("NormalizeEntityKind", func() {
	Context("canonical spellings", func() {
		It("should resolve every listed kind to itself", func() {
			// ARRANGE / ACT / ASSERT
			for _, kind := range domain.AllEntityKinds {
				normalized, ok := domain.NormalizeEntityKind(string(kind))
				Expect(ok).To(BeTrue(), "kind %q should normalize", kind)
				Expect(normalized).To(Equal(kind))
			}
		})

		It("should ignore case and surrounding whitespace", func() {
			// ACT
			normalized, ok := domain.NormalizeEntityKind("  Receipt ")

			// ASSERT
			Expect(ok).To(BeTrue())
			Expect(normalized).To(Equal(domain.KindReceipt))
		})
	})

	Context("legacy spellings", func() {
		It("should map purchase to reimbursement", func() {
			normalized, ok := domain.NormalizeEntityKind("purchase")

			Expect(ok).To(BeTrue())
			Expect(normalized).To(Equal(domain.KindReimbursement))
		})

		It("should map minutes to minute", func() {
			normalized, ok := domain.NormalizeEntityKind("minutes")

			Expect(ok).To(BeTrue())
			Expect(normalized).To(Equal(domain.KindMinute))
		})

		It("should map plural route segments to their kind", func() {
			for raw, expected := range map[string]domain.EntityKind{
				"receipts":     domain.KindReceipt,
				"transactions": domain.KindTransaction,
				"events":       domain.KindEvent,
				"mail_threads": domain.KindMailThread,
			} {
				normalized, ok := domain.NormalizeEntityKind(raw)
				Expect(ok).To(BeTrue(), "raw %q should normalize", raw)
				Expect(normalized).To(Equal(expected))
			}
		})
	})

	Context("unknown strings", func() {
		It("should report ok=false without guessing", func() {
			for _, raw := range []string{"", "invoice", "receipt ledger", "42"} {
				_, ok := domain.NormalizeEntityKind(raw)
				Expect(ok).To(BeFalse(), "raw %q should not normalize", raw)
			}
		})
	})
})
