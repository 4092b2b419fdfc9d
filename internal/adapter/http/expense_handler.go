package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/expense"
	expenseuc "chapter-fund-ledger/internal/usecase/expense"
)

type ExpenseHandler struct{ uc *expenseuc.Usecase }

func NewExpenseHandler(uc *expenseuc.Usecase) *ExpenseHandler { return &ExpenseHandler{uc: uc} }

type expenseReq struct {
	EventID     *string         `json:"event_id"     validate:"omitempty,hex32"`
	Title       string          `json:"title"        validate:"required,max=160"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"       validate:"money,dec2,amountcap"`
	Category    string          `json:"category"     validate:"omitempty,oneof=food supplies transport venue printing medical donation_forward other"`
	ReceiptURL  *string         `json:"receipt_url"  validate:"omitempty,url"`
	ExpenseDate string          `json:"expense_date" validate:"required,datetime=2006-01-02"`
}

func (r expenseReq) fields() expense.Fields {
	return expense.Fields{
		EventID:     r.EventID,
		Title:       r.Title,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    expense.Category(r.Category),
		ReceiptURL:  r.ReceiptURL,
		ExpenseDate: parseDate(r.ExpenseDate),
	}
}

func (h *ExpenseHandler) Submit(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req expenseReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Submit(c.Request().Context(), caller, req.fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ExpenseHandler) List(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	mine, err := queryBool(c, "mine")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), caller, expenseuc.ListFilter{
		Status: expense.Status(c.QueryParam("status")),
		Mine:   mine,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) ListPending(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListPending(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) Get(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	expenseID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), caller, expenseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) Approve(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	expenseID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.Request().Context(), caller, expenseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) Reject(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	expenseID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req rejectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Reject(c.Request().Context(), caller, expenseID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
