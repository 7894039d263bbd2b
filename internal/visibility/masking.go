package visibility

import (
	"strings"

	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// Redaction placeholders. Fixed tokens: masking must be irreversible and
// idempotent, with no partial leakage of the real value.
const (
	MaskedPhone    = "***-***-****"
	MaskedEmail    = "***@***.***"
	MaskedNameOnly = "***"
)

// Mask returns a redacted copy of the lead according to the masking toggles.
// Admin viewers always receive the lead unchanged. Masking is independent of
// visibility: a masked lead still appears in lists, just with reduced
// fidelity, and masking never affects HasAccess.
func Mask(lead domain.Lead, actor domain.Actor, policies domain.PolicyStore) domain.Lead {
	if actor.Role == domain.RoleAdmin {
		return lead
	}
	if policies.Enabled(domain.PolicyHideContactDetails) {
		lead.Phone = MaskedPhone
		lead.Email = MaskedEmail
	}
	if policies.Enabled(domain.PolicyAnonymizeCustomerData) {
		lead.FullName = anonymizeName(lead.FullName)
	}
	return lead
}

// MaskAll redacts every lead in the slice, returning a fresh slice.
func MaskAll(leads []domain.Lead, actor domain.Actor, policies domain.PolicyStore) []domain.Lead {
	if actor.Role == domain.RoleAdmin {
		return leads
	}
	masked := make([]domain.Lead, len(leads))
	for i, l := range leads {
		masked[i] = Mask(l, actor, policies)
	}
	return masked
}

func anonymizeName(fullName string) string {
	if fullName == MaskedNameOnly {
		return fullName
	}
	tokens := strings.Fields(fullName)
	if len(tokens) == 0 {
		return MaskedNameOnly
	}
	initial := string([]rune(tokens[0])[0])
	return initial + ". ***"
}
