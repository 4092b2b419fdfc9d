package ledger

import (
	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/expense"
)

// DonationScope selects which donations count towards the fund total.
type DonationScope string

const (
	// ScopeApproved counts approved donations only. Pending coordinator
	// entries join the total once a reviewer approves them.
	ScopeApproved DonationScope = "approved"
	// ScopeAll counts every recorded donation regardless of status.
	ScopeAll DonationScope = "all"
)

func (s DonationScope) Valid() bool { return s == ScopeApproved || s == ScopeAll }

type SummaryOptions struct {
	DonationScope DonationScope
}

type FundSummary struct {
	TotalDonations       decimal.Decimal `json:"total_donations"`
	DonationCount        int             `json:"donation_count"`
	PendingDonations     decimal.Decimal `json:"pending_donations"`
	PendingDonationCount int             `json:"pending_donation_count"`
	TotalExpenses        decimal.Decimal `json:"total_expenses"`
	ApprovedExpenseCount int             `json:"approved_expense_count"`
	PendingExpenses      decimal.Decimal `json:"pending_expenses"`
	PendingExpenseCount  int             `json:"pending_expense_count"`
	Balance              decimal.Decimal `json:"balance"`
	DonationScope        DonationScope   `json:"donation_scope"`
}

// Summarize computes the club fund summary. TotalExpenses only ever
// includes approved expenses; Balance = TotalDonations - TotalExpenses.
func Summarize(s Snapshot, opts SummaryOptions) FundSummary {
	scope := opts.DonationScope
	if !scope.Valid() {
		scope = ScopeApproved
	}

	var donations, pendingDon, approvedExp, pendingExp Subtotal
	for _, d := range s.Donations {
		if d.Status == donation.StatusPending {
			pendingDon.add(d.Amount)
		}
		if scope == ScopeAll || d.Status == donation.StatusApproved {
			donations.add(d.Amount)
		}
	}
	for _, e := range s.Expenses {
		switch e.Status {
		case expense.StatusApproved:
			approvedExp.add(e.Amount)
		case expense.StatusPending:
			pendingExp.add(e.Amount)
		}
	}

	return FundSummary{
		TotalDonations:       donations.Total,
		DonationCount:        donations.Count,
		PendingDonations:     pendingDon.Total,
		PendingDonationCount: pendingDon.Count,
		TotalExpenses:        approvedExp.Total,
		ApprovedExpenseCount: approvedExp.Count,
		PendingExpenses:      pendingExp.Total,
		PendingExpenseCount:  pendingExp.Count,
		Balance:              donations.Total.Sub(approvedExp.Total),
		DonationScope:        scope,
	}
}

// MemberStats is the personal dashboard of one member.
type MemberStats struct {
	MemberID           string   `json:"member_id"`
	DonationsCollected Subtotal `json:"donations_collected"`
	ExpensesSubmitted  Subtotal `json:"expenses_submitted"`
	PendingItems       int      `json:"pending_items"`
}

// StatsFor aggregates only rows collected or submitted by memberID.
func StatsFor(s Snapshot, memberID string) MemberStats {
	st := MemberStats{MemberID: memberID}
	for _, d := range s.Donations {
		if d.CollectedBy != memberID {
			continue
		}
		st.DonationsCollected.add(d.Amount)
		if d.Status == donation.StatusPending {
			st.PendingItems++
		}
	}
	for _, e := range s.Expenses {
		if e.SubmittedBy != memberID {
			continue
		}
		st.ExpensesSubmitted.add(e.Amount)
		if e.Status == expense.StatusPending {
			st.PendingItems++
		}
	}
	return st
}
