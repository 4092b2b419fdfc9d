package donation

import "chapter-fund-ledger/internal/domain/donation"

// ListFilter narrows List. Coordinators always get their own rows only;
// Mine restricts reviewers the same way.
type ListFilter struct {
	Status donation.Status
	Mine   bool
	Limit  int
}

const maxListLimit = 500
