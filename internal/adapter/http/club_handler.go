package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/adapter/middleware"
	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/member"
	clubuc "chapter-fund-ledger/internal/usecase/club"
	"chapter-fund-ledger/internal/usecase/identity"
)

type ClubHandler struct {
	uc       *clubuc.Usecase
	resolver *identity.Resolver
}

func NewClubHandler(uc *clubuc.Usecase, resolver *identity.Resolver) *ClubHandler {
	return &ClubHandler{uc: uc, resolver: resolver}
}

type clubReq struct {
	Name        string  `json:"name"         validate:"required,max=120"`
	Description *string `json:"description"`
	PaymentID   *string `json:"payment_id"   validate:"omitempty,max=120"`
	BankDetails *string `json:"bank_details"`
}

func (r clubReq) settings() club.Settings {
	return club.Settings{Name: r.Name, Description: r.Description, PaymentID: r.PaymentID, BankDetails: r.BankDetails}
}

type memberReq struct {
	FullName string  `json:"full_name" validate:"required,max=120"`
	Email    string  `json:"email"     validate:"required,email"`
	Phone    *string `json:"phone"     validate:"omitempty,max=32"`
	Role     string  `json:"role"      validate:"omitempty,oneof=coordinator treasurer admin"`
}

func (r memberReq) profile() member.Profile {
	return member.Profile{FullName: r.FullName, Email: r.Email, Phone: r.Phone, Role: member.Role(r.Role)}
}

type setupReq struct {
	Club  clubReq   `json:"club"`
	Admin memberReq `json:"admin"`
}

type linkReq struct {
	Email string `json:"email" validate:"required,email"`
}

type roleReq struct {
	Role string `json:"role" validate:"required,oneof=coordinator treasurer admin"`
}

// Setup creates the club and makes the authenticated identity its first admin.
func (h *ClubHandler) Setup(c echo.Context) error {
	var req setupReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.Setup(c.Request().Context(), middleware.Subject(c), clubuc.SetupInput{
		Club:  req.Club.settings(),
		Admin: req.Admin.profile(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// Link binds the authenticated identity to a member pre-registered by an admin.
func (h *ClubHandler) Link(c echo.Context) error {
	var req linkReq
	if err := bind(c, &req); err != nil {
		return err
	}
	caller, err := h.resolver.Link(c.Request().Context(), middleware.Subject(c), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caller)
}

func (h *ClubHandler) GetClub(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ClubHandler) UpdateClub(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req clubReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.UpdateSettings(c.Request().Context(), caller, req.settings())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ClubHandler) ListMembers(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListMembers(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ClubHandler) AddMember(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	var req memberReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.AddMember(c.Request().Context(), caller, req.profile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ClubHandler) UpdateMemberRole(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req roleReq
	if err := bind(c, &req); err != nil {
		return err
	}
	out, err := h.uc.UpdateMemberRole(c.Request().Context(), caller, memberID, member.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ClubHandler) ToggleMemberStatus(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.ToggleMemberStatus(c.Request().Context(), caller, memberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
