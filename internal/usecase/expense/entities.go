package expense

import "chapter-fund-ledger/internal/domain/expense"

// ListFilter narrows List. Coordinators always get their own rows only.
type ListFilter struct {
	Status expense.Status
	Mine   bool
	Limit  int
}

const maxListLimit = 500
