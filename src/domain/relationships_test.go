package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/test_artefacts/stubs"
)

var _ = Describe("RelationshipOtherSide", func() {
	Context("the known record sits on side A", func() {
		It("should return side B", func() {
			// ARRANGE
			edge := stubs.NewRelationshipStub().
				WithSideA("receipt", 10).
				WithSideB("transaction", 20).
				Get()

			// ACT
			otherKind, otherID, ok := domain.RelationshipOtherSide(edge, domain.KindReceipt, 10)

			// ASSERT
			Expect(ok).To(BeTrue())
			Expect(otherKind).To(Equal(domain.KindTransaction))
			Expect(otherID).To(Equal(int64(20)))
		})
	})

	Context("the known record sits on side B", func() {
		It("should return side A", func() {
			// ARRANGE
			edge := stubs.NewRelationshipStub().
				WithSideA("receipt", 10).
				WithSideB("transaction", 20).
				Get()

			// ACT
			otherKind, otherID, ok := domain.RelationshipOtherSide(edge, domain.KindTransaction, 20)

			// ASSERT
			Expect(ok).To(BeTrue())
			Expect(otherKind).To(Equal(domain.KindReceipt))
			Expect(otherID).To(Equal(int64(10)))
		})
	})

	Context("legacy edge rows", func() {
		It("should normalize an aliased far side", func() {
			// ARRANGE
			edge := stubs.NewRelationshipStub().
				WithSideA("transaction", 7).
				WithSideB("purchase", 3).
				Get()

			// ACT
			otherKind, otherID, ok := domain.RelationshipOtherSide(edge, domain.KindTransaction, 7)

			// ASSERT
			Expect(ok).To(BeTrue())
			Expect(otherKind).To(Equal(domain.KindReimbursement))
			Expect(otherID).To(Equal(int64(3)))
		})

		It("should drop an edge whose far side has an unknown kind", func() {
			// ARRANGE
			edge := stubs.NewRelationshipStub().
				WithSideA("transaction", 7).
				WithSideB("invoice", 3).
				Get()

			// ACT
			_, _, ok := domain.RelationshipOtherSide(edge, domain.KindTransaction, 7)

			// ASSERT
			Expect(ok).To(BeFalse())
		})
	})

	Context("the edge does not touch the record", func() {
		It("should report ok=false", func() {
			// ARRANGE
			edge := stubs.NewRelationshipStub().
				WithSideA("receipt", 10).
				WithSideB("transaction", 20).
				Get()

			// ACT
			_, _, ok := domain.RelationshipOtherSide(edge, domain.KindReceipt, 999)

			// ASSERT
			Expect(ok).To(BeFalse())
		})
	})
})
