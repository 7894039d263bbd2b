package domain

// PolicyKey names an admin-controlled privacy toggle. The set is closed:
// callers treat any other key as disabled.
type PolicyKey string

const (
	PolicyManagerBranchIsolation PolicyKey = "manager_branch_isolation"
	PolicyStaffOwnLeadsOnly      PolicyKey = "staff_own_leads_only"
	PolicyStaffBranchLeadsAccess PolicyKey = "staff_branch_leads_access"
	PolicyAdminLeadsVisibleToAll PolicyKey = "admin_leads_visible_to_all"
	PolicyHideContactDetails     PolicyKey = "hide_contact_details"
	PolicyAnonymizeCustomerData  PolicyKey = "anonymize_customer_data"
)

// KnownPolicyKeys lists every recognized toggle, in display order.
var KnownPolicyKeys = []PolicyKey{
	PolicyManagerBranchIsolation,
	PolicyStaffOwnLeadsOnly,
	PolicyStaffBranchLeadsAccess,
	PolicyAdminLeadsVisibleToAll,
	PolicyHideContactDetails,
	PolicyAnonymizeCustomerData,
}

// IsKnownPolicyKey reports whether key belongs to the fixed toggle set.
func IsKnownPolicyKey(key PolicyKey) bool {
	for _, k := range KnownPolicyKeys {
		if k == key {
			return true
		}
	}
	return false
}

// PolicyToggle is one named privacy switch.
type PolicyToggle struct {
	Key         PolicyKey
	IsEnabled   bool
	Description string
}

// PolicyStore is an immutable per-request snapshot of the privacy toggles.
// It is always injected into visibility and masking decisions, never read
// from ambient state.
type PolicyStore struct {
	toggles map[PolicyKey]PolicyToggle
}

// NewPolicyStore builds a snapshot from the given toggles. Later duplicates
// of a key win.
func NewPolicyStore(toggles ...PolicyToggle) PolicyStore {
	m := make(map[PolicyKey]PolicyToggle, len(toggles))
	for _, t := range toggles {
		m[t.Key] = t
	}
	return PolicyStore{toggles: m}
}

// Get returns the toggle for key, or nil when it was never configured.
func (s PolicyStore) Get(key PolicyKey) *PolicyToggle {
	if t, ok := s.toggles[key]; ok {
		return &t
	}
	return nil
}

// Enabled reports whether key is configured and switched on. Absent keys are
// disabled: every policy fails closed.
func (s PolicyStore) Enabled(key PolicyKey) bool {
	t, ok := s.toggles[key]
	return ok && t.IsEnabled
}

// Toggles returns the configured toggles in KnownPolicyKeys order,
// synthesizing disabled entries for keys not yet configured.
func (s PolicyStore) Toggles() []PolicyToggle {
	out := make([]PolicyToggle, 0, len(KnownPolicyKeys))
	for _, key := range KnownPolicyKeys {
		if t, ok := s.toggles[key]; ok {
			out = append(out, t)
			continue
		}
		out = append(out, PolicyToggle{Key: key})
	}
	return out
}
