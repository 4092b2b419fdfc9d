package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/ledger"
	reportuc "chapter-fund-ledger/internal/usecase/report"
	"chapter-fund-ledger/pkg/id"
)

type ReportHandler struct{ uc *reportuc.Usecase }

func NewReportHandler(uc *reportuc.Usecase) *ReportHandler { return &ReportHandler{uc: uc} }

// Summary serves the fund summary. ?donations=all counts pending and
// rejected donations too.
func (h *ReportHandler) Summary(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	scope := ledger.ScopeApproved
	if v := strings.TrimSpace(c.QueryParam("donations")); v != "" {
		scope = ledger.DonationScope(v)
		if !scope.Valid() {
			return apperr.Validation("donations", "must be one of approved, all")
		}
	}
	out, err := h.uc.GetFundSummary(c.Request().Context(), caller, ledger.SummaryOptions{DonationScope: scope})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Me(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetMyStats(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Donations(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	dates, events, err := commonFilters(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetDonationsReport(c.Request().Context(), caller, ledger.DonationFilter{
		Dates:       dates,
		Event:       events,
		PaymentMode: donation.PaymentMode(c.QueryParam("payment_mode")),
		Status:      donation.Status(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Expenses(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	dates, events, err := commonFilters(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetExpensesReport(c.Request().Context(), caller, ledger.ExpenseFilter{
		Dates:    dates,
		Event:    events,
		Category: expense.Category(c.QueryParam("category")),
		Status:   expense.Status(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Events(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetEventsReport(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Members(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetMembersReport(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// commonFilters reads from, to, event_id and general_fund.
func commonFilters(c echo.Context) (ledger.DateRange, ledger.EventFilter, error) {
	var (
		dates  ledger.DateRange
		events ledger.EventFilter
		err    error
	)
	if dates.From, err = queryDate(c, "from"); err != nil {
		return dates, events, err
	}
	if dates.To, err = queryDate(c, "to"); err != nil {
		return dates, events, err
	}
	if events.GeneralFund, err = queryBool(c, "general_fund"); err != nil {
		return dates, events, err
	}
	if v := strings.TrimSpace(c.QueryParam("event_id")); v != "" {
		if !id.Valid(v) {
			return dates, events, apperr.Validation("event_id", "must be 32-char lowercase hex")
		}
		events.EventID = &v
	}
	return dates, events, nil
}
