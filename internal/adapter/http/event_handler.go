package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/event"
	eventuc "chapter-fund-ledger/internal/usecase/event"
)

type EventHandler struct{ uc *eventuc.Usecase }

func NewEventHandler(uc *eventuc.Usecase) *EventHandler { return &EventHandler{uc: uc} }

type eventReq struct {
	Name         string           `json:"name"          validate:"required,max=160"`
	Description  *string          `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount" validate:"omitempty,money0,dec2,amountcap"`
	StartDate    *string          `json:"start_date"    validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string          `json:"end_date"      validate:"omitempty,datetime=2006-01-02"`
	Status       string           `json:"status"        validate:"omitempty,oneof=upcoming active completed cancelled"`
}

func (r eventReq) input() event.Input {
	return event.Input{
		Name:         r.Name,
		Description:  r.Description,
		TargetAmount: r.TargetAmount,
		StartDate:    parseOptionalDate(r.StartDate),
		EndDate:      parseOptionalDate(r.EndDate),
		Status:       event.Status(r.Status),
	}
}

func (h *EventHandler) List(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EventHandler) Get(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), caller, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EventHandler) Create(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req eventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), caller, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *EventHandler) Update(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req eventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), caller, eventID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes the event; its donations and expenses move to the general fund.
func (h *EventHandler) Delete(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), caller, eventID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
