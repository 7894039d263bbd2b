package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

func maskedLead() domain.Lead {
	return domain.Lead{
		ID:       "1",
		FullName: "Ahmed Al-Rashid",
		Email:    "ahmed@example.com",
		Phone:    "+971-50-123-4567",
	}
}

func TestMaskNoOpForAdmin(t *testing.T) {
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	p := policies(domain.PolicyHideContactDetails, domain.PolicyAnonymizeCustomerData)

	out := Mask(maskedLead(), admin, p)
	assert.Equal(t, maskedLead(), out)
}

func TestMaskContactDetails(t *testing.T) {
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff}
	p := policies(domain.PolicyHideContactDetails)

	out := Mask(maskedLead(), staff, p)
	assert.Equal(t, MaskedPhone, out.Phone)
	assert.Equal(t, MaskedEmail, out.Email)
	assert.Equal(t, "Ahmed Al-Rashid", out.FullName, "name untouched without anonymize toggle")
}

func TestAnonymizeCustomerData(t *testing.T) {
	manager := domain.Actor{ID: "mgr-1", Role: domain.RoleManager}
	p := policies(domain.PolicyAnonymizeCustomerData)

	out := Mask(maskedLead(), manager, p)
	assert.Equal(t, "A. ***", out.FullName)
	assert.Equal(t, "ahmed@example.com", out.Email, "contact untouched without hide toggle")
}

func TestAnonymizeEmptyName(t *testing.T) {
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff}
	p := policies(domain.PolicyAnonymizeCustomerData)

	l := maskedLead()
	l.FullName = "   "
	out := Mask(l, staff, p)
	assert.Equal(t, MaskedNameOnly, out.FullName)
}

func TestMaskIdempotent(t *testing.T) {
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff}
	p := policies(domain.PolicyHideContactDetails, domain.PolicyAnonymizeCustomerData)

	once := Mask(maskedLead(), staff, p)
	twice := Mask(once, staff, p)
	assert.Equal(t, once, twice)

	empty := maskedLead()
	empty.FullName = ""
	once = Mask(empty, staff, p)
	twice = Mask(once, staff, p)
	assert.Equal(t, once, twice)
}

func TestMaskAllDisabledPoliciesPassThrough(t *testing.T) {
	staff := domain.Actor{ID: "staff-a", Role: domain.RoleStaff}
	leads := []domain.Lead{maskedLead()}

	out := MaskAll(leads, staff, policies())
	assert.Equal(t, leads, out)
}
