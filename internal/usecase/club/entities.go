package club

import (
	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/member"
)

// SetupInput is the first-run form: the club and the profile of its first
// admin. Admin.Role is ignored.
type SetupInput struct {
	Club  club.Settings
	Admin member.Profile
}

type SetupResult struct {
	Club  *club.Club     `json:"club"`
	Admin *member.Member `json:"admin"`
}
