package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/event"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/member"
)

// DateRange is inclusive on both ends; nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) contains(t time.Time) bool {
	day := dayOf(t)
	if r.From != nil && day.Before(dayOf(*r.From)) {
		return false
	}
	if r.To != nil && day.After(dayOf(*r.To)) {
		return false
	}
	return true
}

func (r DateRange) check(c *apperr.Collector) {
	if r.From != nil && r.To != nil {
		c.Check(!dayOf(*r.To).Before(dayOf(*r.From)), "to", "must not be before from")
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EventFilter selects rows of one event, or rows without an event when
// GeneralFund is set. The zero value matches everything.
type EventFilter struct {
	EventID     *string
	GeneralFund bool
}

func (f EventFilter) check(c *apperr.Collector) {
	c.Check(!(f.GeneralFund && f.EventID != nil), "event_id", "cannot be combined with general_fund")
}

func (f EventFilter) matches(id *string) bool {
	switch {
	case f.GeneralFund:
		return id == nil
	case f.EventID != nil:
		return id != nil && *id == *f.EventID
	}
	return true
}

// ---- donations ----

type DonationFilter struct {
	Dates       DateRange
	Event       EventFilter
	PaymentMode donation.PaymentMode
	Status      donation.Status
}

func (f DonationFilter) Validate() error {
	var c apperr.Collector
	f.Dates.check(&c)
	f.Event.check(&c)
	if f.PaymentMode != "" {
		c.Check(f.PaymentMode.Valid(), "payment_mode", "is not a known payment mode")
	}
	if f.Status != "" {
		c.Check(f.Status.Valid(), "status", "must be one of pending, approved, rejected")
	}
	return c.Err()
}

type DonationRow struct {
	donation.Donation
	EventName     string `json:"event_name"`
	CollectorName string `json:"collector_name"`
}

type DonationSummary struct {
	Total         decimal.Decimal     `json:"total"`
	Count         int                 `json:"count"`
	Average       decimal.Decimal     `json:"average"`
	ByStatus      map[string]Subtotal `json:"by_status"`
	ByPaymentMode map[string]Subtotal `json:"by_payment_mode"`
}

type DonationsReport struct {
	Rows    []DonationRow   `json:"rows"`
	Summary DonationSummary `json:"summary"`
}

func BuildDonationsReport(s Snapshot, f DonationFilter) DonationsReport {
	events, members := s.eventNames(), s.memberNames()
	rep := DonationsReport{
		Rows: []DonationRow{},
		Summary: DonationSummary{
			ByStatus:      map[string]Subtotal{},
			ByPaymentMode: map[string]Subtotal{},
		},
	}
	var all Subtotal
	for _, d := range s.Donations {
		if !f.Dates.contains(d.DonationDate) || !f.Event.matches(d.EventID) {
			continue
		}
		if f.PaymentMode != "" && d.PaymentMode != f.PaymentMode {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		rep.Rows = append(rep.Rows, DonationRow{
			Donation:      d,
			EventName:     eventLabel(events, d.EventID),
			CollectorName: members[d.CollectedBy],
		})
		all.add(d.Amount)
		addTo(rep.Summary.ByStatus, string(d.Status), d.Amount)
		addTo(rep.Summary.ByPaymentMode, string(d.PaymentMode), d.Amount)
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i], rep.Rows[j]
		if !a.DonationDate.Equal(b.DonationDate) {
			return a.DonationDate.After(b.DonationDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	rep.Summary.Total, rep.Summary.Count, rep.Summary.Average = all.Total, all.Count, all.Average()
	return rep
}

// ---- expenses ----

type ExpenseFilter struct {
	Dates    DateRange
	Event    EventFilter
	Category expense.Category
	Status   expense.Status
}

func (f ExpenseFilter) Validate() error {
	var c apperr.Collector
	f.Dates.check(&c)
	f.Event.check(&c)
	if f.Category != "" {
		c.Check(f.Category.Valid(), "category", "is not a known expense category")
	}
	if f.Status != "" {
		c.Check(f.Status.Valid(), "status", "must be one of pending, approved, rejected")
	}
	return c.Err()
}

type ExpenseRow struct {
	expense.Expense
	EventName     string `json:"event_name"`
	SubmitterName string `json:"submitter_name"`
	ApproverName  string `json:"approver_name,omitempty"`
}

type ExpenseSummary struct {
	Total      decimal.Decimal     `json:"total"`
	Count      int                 `json:"count"`
	Average    decimal.Decimal     `json:"average"`
	Approved   Subtotal            `json:"approved"`
	Pending    Subtotal            `json:"pending"`
	Rejected   Subtotal            `json:"rejected"`
	ByCategory map[string]Subtotal `json:"by_category"`
}

type ExpensesReport struct {
	Rows    []ExpenseRow   `json:"rows"`
	Summary ExpenseSummary `json:"summary"`
}

func BuildExpensesReport(s Snapshot, f ExpenseFilter) ExpensesReport {
	events, members := s.eventNames(), s.memberNames()
	rep := ExpensesReport{
		Rows:    []ExpenseRow{},
		Summary: ExpenseSummary{ByCategory: map[string]Subtotal{}},
	}
	var all Subtotal
	for _, e := range s.Expenses {
		if !f.Dates.contains(e.ExpenseDate) || !f.Event.matches(e.EventID) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		row := ExpenseRow{
			Expense:       e,
			EventName:     eventLabel(events, e.EventID),
			SubmitterName: members[e.SubmittedBy],
		}
		if e.ApprovedBy != nil {
			row.ApproverName = members[*e.ApprovedBy]
		}
		rep.Rows = append(rep.Rows, row)
		all.add(e.Amount)
		switch e.Status {
		case expense.StatusApproved:
			rep.Summary.Approved.add(e.Amount)
		case expense.StatusPending:
			rep.Summary.Pending.add(e.Amount)
		case expense.StatusRejected:
			rep.Summary.Rejected.add(e.Amount)
		}
		addTo(rep.Summary.ByCategory, string(e.Category), e.Amount)
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i], rep.Rows[j]
		if !a.ExpenseDate.Equal(b.ExpenseDate) {
			return a.ExpenseDate.After(b.ExpenseDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	rep.Summary.Total, rep.Summary.Count, rep.Summary.Average = all.Total, all.Count, all.Average()
	return rep
}

// ---- events ----

// EventRow is one event's performance. Progress is approved donations as a
// percentage of Target.
type EventRow struct {
	EventID   *string          `json:"event_id,omitempty"`
	Name      string           `json:"name"`
	Status    event.Status     `json:"status,omitempty"`
	Target    *decimal.Decimal `json:"target_amount,omitempty"`
	Donations Subtotal         `json:"donations"`
	Expenses  Subtotal         `json:"expenses"`
	Net       decimal.Decimal  `json:"net"`
	Progress  *decimal.Decimal `json:"progress,omitempty"`
}

type EventsReport struct {
	Events []EventRow `json:"events"`
	Totals struct {
		Donations decimal.Decimal `json:"donations"`
		Expenses  decimal.Decimal `json:"expenses"`
		Net       decimal.Decimal `json:"net"`
	} `json:"totals"`
}

// BuildEventsReport breaks approved donations and approved expenses down per
// event. Rows without an event are grouped under a General Fund row, which
// is only present when it has activity.
func BuildEventsReport(s Snapshot) EventsReport {
	rows := make(map[string]*EventRow, len(s.Events)+1)
	order := make([]string, 0, len(s.Events)+1)
	for _, e := range s.Events {
		id := e.ID
		rows[id] = &EventRow{EventID: &id, Name: e.Name, Status: e.Status, Target: e.TargetAmount}
		order = append(order, id)
	}
	const general = ""
	row := func(id *string) *EventRow {
		key := general
		if id != nil {
			key = *id
		}
		r, ok := rows[key]
		if !ok {
			r = &EventRow{Name: event.GeneralFund}
			if id != nil {
				// event row missing from the lookup data
				k := key
				r = &EventRow{EventID: &k}
			}
			rows[key] = r
			order = append(order, key)
		}
		return r
	}

	for _, d := range s.Donations {
		if d.Status == donation.StatusApproved {
			row(d.EventID).Donations.add(d.Amount)
		}
	}
	for _, e := range s.Expenses {
		if e.Status == expense.StatusApproved {
			row(e.EventID).Expenses.add(e.Amount)
		}
	}

	var rep EventsReport
	rep.Events = make([]EventRow, 0, len(order))
	for _, key := range order {
		r := rows[key]
		r.Net = r.Donations.Total.Sub(r.Expenses.Total)
		if r.Target != nil && r.Target.IsPositive() {
			p := r.Donations.Total.Mul(decimal.NewFromInt(100)).Div(*r.Target).Round(2)
			r.Progress = &p
		}
		rep.Events = append(rep.Events, *r)
		rep.Totals.Donations = rep.Totals.Donations.Add(r.Donations.Total)
		rep.Totals.Expenses = rep.Totals.Expenses.Add(r.Expenses.Total)
	}
	rep.Totals.Net = rep.Totals.Donations.Sub(rep.Totals.Expenses)
	return rep
}

// ---- members ----

type MemberRow struct {
	MemberID           string      `json:"member_id"`
	Name               string      `json:"name"`
	Role               member.Role `json:"role,omitempty"`
	IsActive           bool        `json:"is_active"`
	DonationsCollected Subtotal    `json:"donations_collected"`
	ExpensesSubmitted  Subtotal    `json:"expenses_submitted"`
	ExpensesApproved   int         `json:"expenses_approved"`
}

type MembersReport struct {
	Members []MemberRow `json:"members"`
}

// BuildMembersReport lists per-member activity. Rejected donations are not
// counted as collected. Members that only appear in ledger rows (missing
// from the lookup data) still get a row keyed by id.
func BuildMembersReport(s Snapshot) MembersReport {
	rows := make(map[string]*MemberRow, len(s.Members))
	for _, m := range s.Members {
		rows[m.ID] = &MemberRow{MemberID: m.ID, Name: m.FullName, Role: m.Role, IsActive: m.IsActive}
	}
	row := func(id string) *MemberRow {
		r, ok := rows[id]
		if !ok {
			r = &MemberRow{MemberID: id}
			rows[id] = r
		}
		return r
	}
	for _, d := range s.Donations {
		if d.Status != donation.StatusRejected {
			row(d.CollectedBy).DonationsCollected.add(d.Amount)
		}
	}
	for _, e := range s.Expenses {
		row(e.SubmittedBy).ExpensesSubmitted.add(e.Amount)
		if e.Status == expense.StatusApproved && e.ApprovedBy != nil {
			row(*e.ApprovedBy).ExpensesApproved++
		}
	}

	rep := MembersReport{Members: make([]MemberRow, 0, len(rows))}
	for _, id := range sortedKeys(rows) {
		rep.Members = append(rep.Members, *rows[id])
	}
	sort.SliceStable(rep.Members, func(i, j int) bool {
		return rep.Members[i].DonationsCollected.Total.GreaterThan(rep.Members[j].DonationsCollected.Total)
	})
	return rep
}

func addTo(m map[string]Subtotal, key string, amount decimal.Decimal) {
	st := m[key]
	st.add(amount)
	m[key] = st
}
