package relationships_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/services/relationships"
	"github.com/Jalez/resident-committee-portal-sub005/src/test_artefacts/comparer"
	"github.com/Jalez/resident-committee-portal-sub005/src/test_artefacts/fakes"
	"github.com/Jalez/resident-committee-portal-sub005/src/test_artefacts/stubs"
)

var _ = Describe("GetRelationshipContext", func() {
	var (
		store   *fakes.Store
		service *relationships.RelationshipService
		ctx     context.Context
	)

	transactionID := int64(100)

	BeforeEach(func() {
		ctx = context.Background()
		store = fakes.NewStore()
		service = relationships.NewRelationshipService(newTestLogger(), store, store, nil, nil)
	})

	Context("entity has no edges", func() {
		It("should return an empty context", func() {
			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.Date).To(BeNil())
			Expect(values.TotalAmount).To(BeNil())
			Expect(values.Description).To(BeNil())
			Expect(values.Currency).To(BeNil())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceNone))
		})
	})

	Context("entity is still being created", func() {
		It("should apply only the manual overrides", func() {
			// ARRANGE
			amount := decimal.RequireFromString("12.50")
			overrides := &domain.ManualOverrides{TotalAmount: &amount}

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, nil, overrides)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.TotalAmount).To(Equal(&amount))
			Expect(values.ValueSource).To(Equal(domain.ValueSourceManual))
		})
	})

	Context("a receipt is linked", func() {
		It("should populate every canonical field from the receipt", func() {
			// ARRANGE
			purchaseDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
			amount := decimal.RequireFromString("49.90")
			receipt := stubs.NewRecordStub().
				WithKind("receipt").WithID(1).
				WithDate(purchaseDate).
				WithAmount(amount).
				WithDescription("Hardware store").
				WithCurrency("SEK").
				WithCreatedBy(7).
				WithItems([]domain.LineItem{{Name: "Paint", Quantity: 2, Price: decimal.RequireFromString("24.95")}}).
				Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			description := "Hardware store"
			currency := "SEK"
			purchaser := int64(7)
			expected := domain.RelationshipContextValues{
				Date:        &purchaseDate,
				TotalAmount: &amount,
				Description: &description,
				Currency:    &currency,
				PurchaserID: &purchaser,
				LineItems:   []domain.LineItem{{Name: "Paint", Quantity: 2, Price: decimal.RequireFromString("24.95")}},
				ValueSource: domain.ValueSourceReceipt,
			}
			Expect(values).To(BeComparableTo(expected,
				comparer.Decimal(),
				comparer.TimeWithinTolerance(200),
			))
		})

		It("should fall back to EUR when the receipt has no currency", func() {
			// ARRANGE
			receipt := stubs.NewRecordStub().
				WithKind("receipt").WithID(1).
				WithCurrency("").
				Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(*values.Currency).To(Equal("EUR"))
		})

		It("should yield empty line items for malformed items JSON", func() {
			// ARRANGE
			receipt := stubs.NewRecordStub().
				WithKind("receipt").WithID(1).
				WithRawItems(`{"oops": not json`).
				Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.LineItems).NotTo(BeNil())
			Expect(values.LineItems).To(BeEmpty())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceReceipt))
		})

		It("should parse double-encoded line items from older receipts", func() {
			// ARRANGE
			receipt := stubs.NewRecordStub().
				WithKind("receipt").WithID(1).
				WithRawItems(`"[{\"name\":\"Coffee\",\"quantity\":1,\"price\":\"3.50\"}]"`).
				Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.LineItems).To(HaveLen(1))
			Expect(values.LineItems[0].Name).To(Equal("Coffee"))
		})
	})

	Context("domination scale", func() {
		It("should let a receipt dominate a reimbursement and a transaction", func() {
			// ARRANGE
			receiptAmount := decimal.RequireFromString("30.00")
			receipt := stubs.NewRecordStub().WithKind("receipt").WithID(1).WithAmount(receiptAmount).Get()
			reimbursement := stubs.NewRecordStub().WithKind("reimbursement").WithID(2).Get()
			store.SeedRecord(receipt)
			store.SeedRecord(reimbursement)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("reimbursement", 2).
				WithSideB("transaction", transactionID).
				Get())
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceReceipt))
			Expect(values.TotalAmount.Equal(receiptAmount)).To(BeTrue())
		})

		It("should let a reimbursement dominate a transaction neighbor", func() {
			// ARRANGE
			reimbursementID := int64(2)
			amount := decimal.RequireFromString("18.00")
			reimbursement := stubs.NewRecordStub().
				WithKind("reimbursement").WithID(reimbursementID).
				WithoutDate().
				WithAmount(amount).
				WithCreatedAt(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)).
				Get()
			otherTransaction := stubs.NewRecordStub().WithKind("transaction").WithID(50).Get()
			store.SeedRecord(reimbursement)
			store.SeedRecord(otherTransaction)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("transaction", 50).
				WithSideB("transaction", transactionID).
				Get())
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("reimbursement", reimbursementID).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceReimbursement))
			Expect(values.TotalAmount.Equal(amount)).To(BeTrue())
			Expect(*values.Currency).To(Equal("EUR"))
			// reimbursements have no purchase date, creation time stands in
			Expect(*values.Date).To(Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))
		})

		It("should keep the first-linked neighbor when priorities tie", func() {
			// ARRANGE
			firstAmount := decimal.RequireFromString("10.00")
			secondAmount := decimal.RequireFromString("99.00")
			first := stubs.NewRecordStub().WithKind("receipt").WithID(1).WithAmount(firstAmount).Get()
			second := stubs.NewRecordStub().WithKind("receipt").WithID(2).WithAmount(secondAmount).Get()
			store.SeedRecord(first)
			store.SeedRecord(second)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 2).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.TotalAmount.Equal(firstAmount)).To(BeTrue())
		})

		It("should resolve a legacy purchase edge as a reimbursement", func() {
			// ARRANGE
			reimbursement := stubs.NewRecordStub().WithKind("reimbursement").WithID(2).Get()
			store.SeedRecord(reimbursement)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("purchase", 2).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceReimbursement))
		})

		It("should contribute nothing from kinds without field values", func() {
			// ARRANGE
			news := stubs.NewRecordStub().WithKind("news").WithID(8).Get()
			store.SeedRecord(news)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("news", 8).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceNone))
			Expect(values.TotalAmount).To(BeNil())
		})
	})

	Context("manual overrides", func() {
		It("should override the linked receipt and flip the source to manual", func() {
			// ARRANGE
			receipt := stubs.NewRecordStub().
				WithKind("receipt").WithID(1).
				WithAmount(decimal.RequireFromString("30.00")).
				Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())
			manualAmount := decimal.RequireFromString("42.00")
			overrides := &domain.ManualOverrides{TotalAmount: &manualAmount}

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, overrides)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.TotalAmount.Equal(manualAmount)).To(BeTrue())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceManual))
		})

		It("should not flip the source for secondary fields", func() {
			// ARRANGE
			receipt := stubs.NewRecordStub().WithKind("receipt").WithID(1).Get()
			store.SeedRecord(receipt)
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())
			currency := "USD"
			category := "maintenance"
			overrides := &domain.ManualOverrides{Currency: &currency, Category: &category}

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, overrides)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(*values.Currency).To(Equal("USD"))
			Expect(*values.Category).To(Equal("maintenance"))
			Expect(values.ValueSource).To(Equal(domain.ValueSourceReceipt))
		})
	})

	Context("degradation", func() {
		It("should leave the context empty when the dominant record cannot be read", func() {
			// ARRANGE
			store.FailRecord("receipt", 1, errors.New("connection reset"))
			store.SeedEdge(stubs.NewRelationshipStub().
				WithSideA("receipt", 1).
				WithSideB("transaction", transactionID).
				Get())

			// ACT
			values, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(values.ValueSource).To(Equal(domain.ValueSourceNone))
			Expect(values.TotalAmount).To(BeNil())
		})

		It("should return the wrapped error when the edge fetch itself fails", func() {
			// ARRANGE
			store.FailEdges(errors.New("connection refused"))

			// ACT
			_, err := service.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to fetch edges"))
		})
	})
})
