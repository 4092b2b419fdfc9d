// Package ledger derives fund summaries and reports from a club's donations
// and expenses. Everything here is pure: callers load one Snapshot inside a
// single read transaction and every figure of a report is computed from it.
//
// Sums are accumulated with decimal.Decimal; nothing is converted to float.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/event"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/member"
)

// Snapshot is the ledger of one club as read at one point in time. Events
// and Members are lookup data: when they are missing, reports still
// compute with empty names.
type Snapshot struct {
	ClubID    string
	Donations []donation.Donation
	Expenses  []expense.Expense
	Events    []event.Event
	Members   []member.Member
}

// Subtotal is a sum with its row count.
type Subtotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s *Subtotal) add(amount decimal.Decimal) {
	s.Total = s.Total.Add(amount)
	s.Count++
}

// Average returns Total/Count rounded to 2 places, zero for an empty subtotal.
func (s Subtotal) Average() decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
}

func (s Snapshot) eventNames() map[string]string {
	out := make(map[string]string, len(s.Events))
	for _, e := range s.Events {
		out[e.ID] = e.Name
	}
	return out
}

func (s Snapshot) memberNames() map[string]string {
	out := make(map[string]string, len(s.Members))
	for _, m := range s.Members {
		out[m.ID] = m.FullName
	}
	return out
}

func eventLabel(names map[string]string, id *string) string {
	if id == nil {
		return event.GeneralFund
	}
	return names[*id]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
