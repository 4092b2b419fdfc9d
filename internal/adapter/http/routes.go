package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Clubs     *ClubHandler
	Events    *EventHandler
	Donations *DonationHandler
	Expenses  *ExpenseHandler
	Reports   *ReportHandler
}

// Guards are the middleware chains in front of the API. Idempotency may be
// nil.
type Guards struct {
	Authenticate  echo.MiddlewareFunc
	RequireMember echo.MiddlewareFunc
	Idempotency   echo.MiddlewareFunc
}

// Register mounts every route on e. /setup and /auth/link only need a valid
// token; everything else also needs an active member.
func Register(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/health", h.Health.Health)

	onboarding := g.chain(g.Authenticate)
	e.POST("/setup", h.Clubs.Setup, onboarding...)
	e.POST("/auth/link", h.Clubs.Link, onboarding...)

	api := e.Group("", g.chain(g.Authenticate, g.RequireMember)...)

	api.GET("/club", h.Clubs.GetClub)
	api.PUT("/club", h.Clubs.UpdateClub)
	api.GET("/members", h.Clubs.ListMembers)
	api.POST("/members", h.Clubs.AddMember)
	api.PATCH("/members/:id/role", h.Clubs.UpdateMemberRole)
	api.PATCH("/members/:id/status", h.Clubs.ToggleMemberStatus)

	api.GET("/events", h.Events.List)
	api.POST("/events", h.Events.Create)
	api.GET("/events/:id", h.Events.Get)
	api.PUT("/events/:id", h.Events.Update)
	api.DELETE("/events/:id", h.Events.Delete)

	api.POST("/donations", h.Donations.Record)
	api.GET("/donations", h.Donations.List)
	api.GET("/donations/pending", h.Donations.ListPending)
	api.GET("/donations/:id", h.Donations.Get)
	api.PUT("/donations/:id", h.Donations.Update)
	api.DELETE("/donations/:id", h.Donations.Delete)
	api.POST("/donations/:id/approve", h.Donations.Approve)
	api.POST("/donations/:id/reject", h.Donations.Reject)
	api.POST("/donations/:id/resubmit", h.Donations.Resubmit)

	api.POST("/expenses", h.Expenses.Submit)
	api.GET("/expenses", h.Expenses.List)
	api.GET("/expenses/pending", h.Expenses.ListPending)
	api.GET("/expenses/:id", h.Expenses.Get)
	api.POST("/expenses/:id/approve", h.Expenses.Approve)
	api.POST("/expenses/:id/reject", h.Expenses.Reject)

	api.GET("/reports/summary", h.Reports.Summary)
	api.GET("/reports/me", h.Reports.Me)
	api.GET("/reports/donations", h.Reports.Donations)
	api.GET("/reports/expenses", h.Reports.Expenses)
	api.GET("/reports/events", h.Reports.Events)
	api.GET("/reports/members", h.Reports.Members)
}

func (g Guards) chain(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if g.Idempotency != nil {
		mw = append(mw, g.Idempotency)
	}
	return mw
}
