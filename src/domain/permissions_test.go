package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
)

var _ = Describe("PermissionSet", func() {
	Context("nil receiver", func() {
		It("should allow everything for trusted in-process callers", func() {
			var perms *domain.PermissionSet

			for _, kind := range domain.AllEntityKinds {
				Expect(perms.CanReadRelationType(kind)).To(BeTrue())
				Expect(perms.CanWriteRelationType(kind)).To(BeTrue())
			}
		})
	})

	Context("explicit grants", func() {
		It("should imply read from write", func() {
			perms := domain.NewPermissionSet(nil, []domain.EntityKind{domain.KindReceipt})

			Expect(perms.CanWriteRelationType(domain.KindReceipt)).To(BeTrue())
			Expect(perms.CanReadRelationType(domain.KindReceipt)).To(BeTrue())
			Expect(perms.CanReadRelationType(domain.KindNews)).To(BeFalse())
		})
	})
})

var _ = Describe("PermissionsForRoles", func() {
	It("should hand board members full write access", func() {
		perms := domain.PermissionsForRoles([]string{"board"})

		for _, kind := range domain.AllEntityKinds {
			Expect(perms.CanWriteRelationType(kind)).To(BeTrue(), "kind %q", kind)
		}
	})

	It("should restrict treasurers to writing financial kinds", func() {
		perms := domain.PermissionsForRoles([]string{"treasurer"})

		Expect(perms.CanWriteRelationType(domain.KindReceipt)).To(BeTrue())
		Expect(perms.CanWriteRelationType(domain.KindTransaction)).To(BeTrue())
		Expect(perms.CanWriteRelationType(domain.KindNews)).To(BeFalse())
		Expect(perms.CanReadRelationType(domain.KindNews)).To(BeTrue())
	})

	It("should give plain members read-only access to community kinds", func() {
		perms := domain.PermissionsForRoles([]string{"member"})

		Expect(perms.CanReadRelationType(domain.KindNews)).To(BeTrue())
		Expect(perms.CanReadRelationType(domain.KindReceipt)).To(BeFalse())
		for _, kind := range domain.AllEntityKinds {
			Expect(perms.CanWriteRelationType(kind)).To(BeFalse(), "kind %q", kind)
		}
	})

	It("should merge grants across roles and ignore unknown ones", func() {
		perms := domain.PermissionsForRoles([]string{"member", "treasurer", "janitor"})

		Expect(perms.CanWriteRelationType(domain.KindBudget)).To(BeTrue())
		Expect(perms.CanReadRelationType(domain.KindMailThread)).To(BeTrue())
		Expect(perms.CanWriteRelationType(domain.KindMailThread)).To(BeFalse())
	})
})
