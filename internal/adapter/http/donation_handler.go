package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/domain/donation"
	donationuc "chapter-fund-ledger/internal/usecase/donation"
)

type DonationHandler struct{ uc *donationuc.Usecase }

func NewDonationHandler(uc *donationuc.Usecase) *DonationHandler { return &DonationHandler{uc: uc} }

type donationReq struct {
	EventID        *string         `json:"event_id"        validate:"omitempty,hex32"`
	DonorName      string          `json:"donor_name"      validate:"required,max=120"`
	DonorEmail     *string         `json:"donor_email"     validate:"omitempty,email"`
	DonorPhone     *string         `json:"donor_phone"     validate:"omitempty,max=32"`
	Amount         decimal.Decimal `json:"amount"          validate:"money,dec2,amountcap"`
	PaymentMode    string          `json:"payment_mode"    validate:"required,oneof=upi cash bank_transfer cheque other"`
	TransactionID  *string         `json:"transaction_id"  validate:"omitempty,max=120"`
	ScreenshotURL  *string         `json:"screenshot_url"  validate:"omitempty,url"`
	Notes          *string         `json:"notes"`
	DonationDate   string          `json:"donation_date"   validate:"required,datetime=2006-01-02"`
	BloodGroup     *string         `json:"blood_group"     validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	ContactConsent bool            `json:"contact_consent"`
}

func (r donationReq) fields() donation.Fields {
	f := donation.Fields{
		EventID:        r.EventID,
		DonorName:      r.DonorName,
		DonorEmail:     r.DonorEmail,
		DonorPhone:     r.DonorPhone,
		Amount:         r.Amount,
		PaymentMode:    donation.PaymentMode(r.PaymentMode),
		TransactionID:  r.TransactionID,
		ScreenshotURL:  r.ScreenshotURL,
		Notes:          r.Notes,
		DonationDate:   parseDate(r.DonationDate),
		ContactConsent: r.ContactConsent,
	}
	if r.BloodGroup != nil {
		bg := donation.BloodGroup(*r.BloodGroup)
		f.BloodGroup = &bg
	}
	return f
}

type rejectReq struct {
	Reason string `json:"rejection_reason" validate:"required,max=1000"`
}

// resubmitReq optionally carries corrected fields; an empty body resubmits
// the donation unchanged.
type resubmitReq struct {
	Correction *donationReq `json:"correction"`
}

func (h *DonationHandler) Record(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req donationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Record(c.Request().Context(), caller, req.fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DonationHandler) List(c echo.Context) error {
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
	out, err := h.uc.List(c.Request().Context(), caller, donationuc.ListFilter{
		Status: donation.Status(c.QueryParam("status")),
		Mine:   mine,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) ListPending(c echo.Context) error {
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

func (h *DonationHandler) Get(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), caller, donationID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) Update(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req donationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), caller, donationID, req.fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) Delete(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), caller, donationID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DonationHandler) Approve(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.Request().Context(), caller, donationID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) Reject(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req rejectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Reject(c.Request().Context(), caller, donationID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) Resubmit(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	donationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req resubmitReq
	if err := bind(c, &req); err != nil {
		return err
	}
	var fix *donation.Fields
	if req.Correction != nil {
		f := req.Correction.fields()
		fix = &f
	}
	out, err := h.uc.Resubmit(c.Request().Context(), caller, donationID, fix)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
