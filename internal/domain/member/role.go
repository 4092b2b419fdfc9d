package member

import "strings"

// Role is the permission tier of a member inside its club.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleTreasurer   Role = "treasurer"
	RoleAdmin       Role = "admin"
)

// rank orders the tiers: admin ⊇ treasurer ⊇ coordinator.
var rank = map[Role]int{
	RoleCoordinator: 1,
	RoleTreasurer:   2,
	RoleAdmin:       3,
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool { _, ok := rank[r]; return ok }

// AtLeast reports whether r sits at or above min in the hierarchy.
// Unknown roles never satisfy anything.
func (r Role) AtLeast(min Role) bool {
	have, ok := rank[r]
	if !ok {
		return false
	}
	return have >= rank[min]
}

// Capability names one permission checked by the workflows.
type Capability string

// Capabilities checked by the workflows. Record covers recording donations and
// submitting expenses; EditLedger covers edits and deletes of existing donations.
const (
	CapRecord        Capability = "record"
	CapApprove       Capability = "approve"
	CapViewReports   Capability = "view_reports"
	CapManageEvents  Capability = "manage_events"
	CapEditLedger    Capability = "edit_ledger"
	CapManageMembers Capability = "manage_members"
	CapConfigureClub Capability = "configure_club"
)

// minimum tier required for each capability. Member management and ledger
// edits are admin-only; treasurer does not inherit them.
var required = map[Capability]Role{
	CapRecord:        RoleCoordinator,
	CapApprove:       RoleTreasurer,
	CapViewReports:   RoleTreasurer,
	CapManageEvents:  RoleTreasurer,
	CapEditLedger:    RoleAdmin,
	CapManageMembers: RoleAdmin,
	CapConfigureClub: RoleAdmin,
}

// Can reports whether the role grants capability c.
func (r Role) Can(c Capability) bool {
	min, ok := required[c]
	if !ok {
		return false
	}
	return r.AtLeast(min)
}

func CanApprove(r Role) bool { return r.Can(CapApprove) }
func CanManageMembers(r Role) bool { return r.Can(CapManageMembers) }
func CanEditLedger(r Role) bool { return r.Can(CapEditLedger) }
func CanViewClubReports(r Role) bool { return r.Can(CapViewReports) }
func CanConfigureClub(r Role) bool { return r.Can(CapConfigureClub) }
func CanManageEvents(r Role) bool { return r.Can(CapManageEvents) }
func CanRecord(r Role) bool { return r.Can(CapRecord) }
