package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"chapter-fund-ledger/internal/adapter/middleware"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/ledger"
	"chapter-fund-ledger/internal/domain/ledgerevent"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/infrastructure/cache"
	"chapter-fund-ledger/internal/infrastructure/logger"
	"chapter-fund-ledger/internal/testutil/fixture"
	clubuc "chapter-fund-ledger/internal/usecase/club"
	donationuc "chapter-fund-ledger/internal/usecase/donation"
	eventuc "chapter-fund-ledger/internal/usecase/event"
	expenseuc "chapter-fund-ledger/internal/usecase/expense"
	"chapter-fund-ledger/internal/usecase/identity"
	reportuc "chapter-fund-ledger/internal/usecase/report"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type apiEnv struct {
	e *echo.Echo
	f *fixture.Fixture
}

func newAPI(t *testing.T) apiEnv {
	t.Helper()
	f := fixture.New(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.Nop()
	summaries := cache.NewSummaryCache(rdb, time.Minute, log)
	events := ledgerevent.Multi{summaries}
	resolver := identity.NewResolver(f.Members(), f.UoW)

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewErrorHandler(log)
	Register(e, Handlers{
		Health:    NewHandler(),
		Clubs:     NewClubHandler(clubuc.NewUsecase(f.UoW, log), resolver),
		Events:    NewEventHandler(eventuc.NewUsecase(f.UoW, events, log)),
		Donations: NewDonationHandler(donationuc.NewUsecase(f.UoW, events, log)),
		Expenses:  NewExpenseHandler(expenseuc.NewUsecase(f.UoW, events, log)),
		Reports:   NewReportHandler(reportuc.NewUsecase(f.UoW, summaries, log)),
	}, Guards{
		Authenticate:  middleware.Authenticate(testSecret, ""),
		RequireMember: middleware.RequireMember(resolver),
		Idempotency:   middleware.Idempotency(rdb, time.Minute, log),
	})
	return apiEnv{e: e, f: f}
}

func tokenFor(t *testing.T, subject string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func tokenOf(t *testing.T, m *member.Member) string { return tokenFor(t, *m.AuthID) }

func (a apiEnv) do(t *testing.T, method, path, token string, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, strings.NewReader(b))
	default:
		req = httptest.NewRequest(method, path, mustJSON(b))
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	expectStatus(t, rec, status)
	resp := decode[ErrorResponse](t, rec)
	if resp.Code != code {
		t.Fatalf("code = %q, want %q; body=%s", resp.Code, code, rec.Body.String())
	}
	return resp
}

func upiGift(amount string) map[string]any {
	return map[string]any{
		"donor_name":     "Ravi Kumar",
		"amount":         amount,
		"payment_mode":   "upi",
		"transaction_id": "UPI-889201",
		"donation_date":  "2025-03-01",
	}
}

func TestAPI_Authentication(t *testing.T) {
	a := newAPI(t)

	expectError(t, a.do(t, stdhttp.MethodGet, "/club", "", nil), stdhttp.StatusUnauthorized, "unauthenticated")
	expectError(t, a.do(t, stdhttp.MethodGet, "/club", "garbage", nil), stdhttp.StatusUnauthorized, "unauthenticated")
	expectError(t, a.do(t, stdhttp.MethodGet, "/club", tokenFor(t, "auth|stranger"), nil), stdhttp.StatusForbidden, "member_not_found")

	rec := a.do(t, stdhttp.MethodGet, "/club", tokenOf(t, a.f.Coord), nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[map[string]any](t, rec); got["name"] != a.f.Club.Name {
		t.Fatalf("club = %v", got)
	}
}

func TestAPI_SetupAndLink(t *testing.T) {
	a := newAPI(t)
	founder := tokenFor(t, "auth|meera@example.org")

	setup := map[string]any{
		"club":  map[string]any{"name": "Lakeside Chapter", "payment_id": "lakeside@upi"},
		"admin": map[string]any{"full_name": "Meera Iyer", "email": "meera@example.org"},
	}
	rec := a.do(t, stdhttp.MethodPost, "/setup", founder, setup)
	expectStatus(t, rec, stdhttp.StatusCreated)
	res := decode[clubuc.SetupResult](t, rec)
	if res.Admin.Role != member.RoleAdmin || res.Club.Name != "Lakeside Chapter" {
		t.Fatalf("setup result: %+v", res)
	}
	expectError(t, a.do(t, stdhttp.MethodPost, "/setup", founder, setup), stdhttp.StatusConflict, "conflict")

	bad := a.do(t, stdhttp.MethodPost, "/setup", tokenFor(t, "auth|x"), map[string]any{"club": map[string]any{}, "admin": map[string]any{"email": "nope"}})
	resp := expectError(t, bad, stdhttp.StatusUnprocessableEntity, "validation_failed")
	if !containsFieldMsg(resp.Details, "name", "is required") || !containsFieldMsg(resp.Details, "email", "valid email") {
		t.Fatalf("details: %+v", resp.Details)
	}

	rec = a.do(t, stdhttp.MethodPost, "/members", founder, map[string]any{"full_name": "Kiran Shah", "email": "kiran@example.org"})
	expectStatus(t, rec, stdhttp.StatusCreated)

	kiran := tokenFor(t, "auth|kiran-google")
	expectError(t, a.do(t, stdhttp.MethodGet, "/club", kiran, nil), stdhttp.StatusForbidden, "member_not_found")
	rec = a.do(t, stdhttp.MethodPost, "/auth/link", kiran, map[string]any{"email": "kiran@example.org"})
	expectStatus(t, rec, stdhttp.StatusOK)
	caller := decode[member.Caller](t, rec)
	if caller.Role != member.RoleCoordinator || caller.ClubID != res.Club.ID {
		t.Fatalf("linked caller: %+v", caller)
	}
	expectStatus(t, a.do(t, stdhttp.MethodGet, "/club", kiran, nil), stdhttp.StatusOK)
}

func TestAPI_DonationApprovalFlow(t *testing.T) {
	a := newAPI(t)
	coord, treasurer := tokenOf(t, a.f.Coord), tokenOf(t, a.f.Treasurer)

	rec := a.do(t, stdhttp.MethodPost, "/donations", coord, upiGift("5000"))
	expectStatus(t, rec, stdhttp.StatusCreated)
	d := decode[donation.Donation](t, rec)
	if d.Status != donation.StatusPending || d.CollectedBy != a.f.Coord.ID {
		t.Fatalf("donation: %+v", d)
	}

	before := decode[ledger.FundSummary](t, a.do(t, stdhttp.MethodGet, "/reports/summary", treasurer, nil))

	expectError(t, a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/approve", coord, nil), stdhttp.StatusForbidden, "wrong_role")
	rec = a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/approve", treasurer, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[donation.Donation](t, rec); got.Status != donation.StatusApproved {
		t.Fatalf("status = %s", got.Status)
	}
	expectError(t, a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/approve", treasurer, nil), stdhttp.StatusConflict, "invalid_transition")

	after := decode[ledger.FundSummary](t, a.do(t, stdhttp.MethodGet, "/reports/summary", treasurer, nil))
	if !after.TotalDonations.Sub(before.TotalDonations).Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total moved %s -> %s", before.TotalDonations, after.TotalDonations)
	}
}

func TestAPI_RejectAndResubmit(t *testing.T) {
	a := newAPI(t)
	coord, admin := tokenOf(t, a.f.Coord), tokenOf(t, a.f.Admin)

	d := decode[donation.Donation](t, a.do(t, stdhttp.MethodPost, "/donations", coord, upiGift("300")))

	resp := expectError(t, a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/reject", admin, map[string]any{}), stdhttp.StatusUnprocessableEntity, "validation_failed")
	if !containsFieldMsg(resp.Details, "rejection_reason", "is required") {
		t.Fatalf("details: %+v", resp.Details)
	}
	rec := a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/reject", admin, map[string]any{"rejection_reason": "duplicate entry"})
	expectStatus(t, rec, stdhttp.StatusOK)

	expectError(t, a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/resubmit", admin, nil), stdhttp.StatusForbidden, "wrong_role")

	fix := map[string]any{"correction": upiGift("350")}
	rec = a.do(t, stdhttp.MethodPost, "/donations/"+d.ID+"/resubmit", coord, fix)
	expectStatus(t, rec, stdhttp.StatusOK)
	got := decode[donation.Donation](t, rec)
	if got.Status != donation.StatusPending || !got.Amount.Equal(decimal.NewFromInt(350)) || got.RejectionReason != nil {
		t.Fatalf("resubmitted: %+v", got)
	}

	pending := decode[[]donation.PendingRow](t, a.do(t, stdhttp.MethodGet, "/donations/pending", admin, nil))
	if len(pending) != 1 || pending[0].CollectorName != a.f.Coord.FullName {
		t.Fatalf("pending: %+v", pending)
	}
}

func TestAPI_ExpenseSelfApproval(t *testing.T) {
	a := newAPI(t)
	treasurer, admin := tokenOf(t, a.f.Treasurer), tokenOf(t, a.f.Admin)

	rec := a.do(t, stdhttp.MethodPost, "/expenses", treasurer, map[string]any{
		"title":        "Volunteer lunch",
		"amount":       1200,
		"category":     "food",
		"expense_date": "2025-03-02",
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	x := decode[expense.Expense](t, rec)

	expectError(t, a.do(t, stdhttp.MethodPost, "/expenses/"+x.ID+"/approve", treasurer, nil), stdhttp.StatusForbidden, "self_approval")
	rec = a.do(t, stdhttp.MethodPost, "/expenses/"+x.ID+"/approve", admin, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[expense.Expense](t, rec); got.ApprovedBy == nil || *got.ApprovedBy != a.f.Admin.ID {
		t.Fatalf("approved: %+v", got)
	}

	report := decode[ledger.ExpensesReport](t, a.do(t, stdhttp.MethodGet, "/reports/expenses?status=approved&category=food", admin, nil))
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
}

func TestAPI_RequestValidation(t *testing.T) {
	a := newAPI(t)
	coord := tokenOf(t, a.f.Coord)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
		field  string
	}{
		{"malformed json", stdhttp.MethodPost, "/donations", `{"amount":`, stdhttp.StatusBadRequest, "bad_request", ""},
		{"zero amount", stdhttp.MethodPost, "/donations", upiGift("0"), stdhttp.StatusUnprocessableEntity, "validation_failed", "amount"},
		{"three decimals", stdhttp.MethodPost, "/donations", upiGift("10.005"), stdhttp.StatusUnprocessableEntity, "validation_failed", "amount"},
		{"amount beyond column", stdhttp.MethodPost, "/donations", upiGift("10000000000"), stdhttp.StatusUnprocessableEntity, "validation_failed", "amount"},
		{"expense beyond column", stdhttp.MethodPost, "/expenses", map[string]any{"title": "Hall", "amount": "25000000000", "category": "venue", "expense_date": "2025-04-02"}, stdhttp.StatusUnprocessableEntity, "validation_failed", "amount"},
		{"bad date", stdhttp.MethodPost, "/donations", map[string]any{"donor_name": "A", "amount": "5", "payment_mode": "cash", "donation_date": "01/03/2025"}, stdhttp.StatusUnprocessableEntity, "validation_failed", "donation_date"},
		{"bad payment mode", stdhttp.MethodPost, "/donations", map[string]any{"donor_name": "A", "amount": "5", "payment_mode": "card", "donation_date": "2025-03-01"}, stdhttp.StatusUnprocessableEntity, "validation_failed", "payment_mode"},
		{"bad path id", stdhttp.MethodGet, "/donations/not-an-id", nil, stdhttp.StatusUnprocessableEntity, "validation_failed", "id"},
		{"unknown donation", stdhttp.MethodGet, "/donations/" + strings.Repeat("a", 32), nil, stdhttp.StatusNotFound, "not_found", ""},
		{"bad list status", stdhttp.MethodGet, "/donations?status=lost", nil, stdhttp.StatusUnprocessableEntity, "validation_failed", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, coord, tt.body)
			resp := expectError(t, rec, tt.status, tt.code)
			if tt.field != "" && !containsField(resp.Details, tt.field) {
				t.Fatalf("details missing %q: %+v", tt.field, resp.Details)
			}
		})
	}
}

func TestAPI_ReportFilters(t *testing.T) {
	a := newAPI(t)
	admin := tokenOf(t, a.f.Admin)

	tests := []struct {
		query  string
		status int
		field  string
	}{
		{"/reports/donations?from=2025-03-01&to=2025-03-31&payment_mode=upi", stdhttp.StatusOK, ""},
		{"/reports/donations?from=03-2025", stdhttp.StatusUnprocessableEntity, "from"},
		{"/reports/donations?from=2025-03-31&to=2025-03-01", stdhttp.StatusUnprocessableEntity, "to"},
		{"/reports/donations?general_fund=true&event_id=" + strings.Repeat("e", 32), stdhttp.StatusUnprocessableEntity, "event_id"},
		{"/reports/donations?general_fund=maybe", stdhttp.StatusUnprocessableEntity, "general_fund"},
		{"/reports/expenses?category=yachts", stdhttp.StatusUnprocessableEntity, "category"},
		{"/reports/summary?donations=everything", stdhttp.StatusUnprocessableEntity, "donations"},
		{"/reports/summary?donations=all", stdhttp.StatusOK, ""},
		{"/reports/events", stdhttp.StatusOK, ""},
		{"/reports/members", stdhttp.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := a.do(t, stdhttp.MethodGet, tt.query, admin, nil)
			expectStatus(t, rec, tt.status)
			if tt.field != "" && !containsField(decode[ErrorResponse](t, rec).Details, tt.field) {
				t.Fatalf("details missing %q: %s", tt.field, rec.Body.String())
			}
		})
	}

	expectError(t, a.do(t, stdhttp.MethodGet, "/reports/donations", tokenOf(t, a.f.Coord), nil), stdhttp.StatusForbidden, "wrong_role")
}

func TestAPI_EventLifecycle(t *testing.T) {
	a := newAPI(t)
	admin, coord := tokenOf(t, a.f.Admin), tokenOf(t, a.f.Coord)

	rec := a.do(t, stdhttp.MethodPost, "/events", admin, map[string]any{
		"name":          "Blood drive",
		"target_amount": "10000",
		"start_date":    "2025-03-01",
		"end_date":      "2025-03-02",
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	ev := decode[map[string]any](t, rec)
	eventID, _ := ev["id"].(string)

	gift := upiGift("700")
	gift["event_id"] = eventID
	d := decode[donation.Donation](t, a.do(t, stdhttp.MethodPost, "/donations", coord, gift))

	expectError(t, a.do(t, stdhttp.MethodDelete, "/events/"+eventID, coord, nil), stdhttp.StatusForbidden, "wrong_role")
	expectStatus(t, a.do(t, stdhttp.MethodDelete, "/events/"+eventID, admin, nil), stdhttp.StatusNoContent)
	expectError(t, a.do(t, stdhttp.MethodGet, "/events/"+eventID, admin, nil), stdhttp.StatusNotFound, "not_found")

	got := decode[donation.Donation](t, a.do(t, stdhttp.MethodGet, "/donations/"+d.ID, admin, nil))
	if got.EventID != nil {
		t.Fatalf("donation still tied to deleted event: %v", *got.EventID)
	}
}

func TestAPI_MemberAdministration(t *testing.T) {
	a := newAPI(t)
	admin, coord := tokenOf(t, a.f.Admin), tokenOf(t, a.f.Coord)

	expectError(t, a.do(t, stdhttp.MethodPatch, "/members/"+a.f.Admin.ID+"/role", admin, map[string]any{"role": "coordinator"}), stdhttp.StatusForbidden, "self_modification")
	expectError(t, a.do(t, stdhttp.MethodPatch, "/members/"+a.f.Coord.ID+"/role", admin, map[string]any{"role": "owner"}), stdhttp.StatusUnprocessableEntity, "validation_failed")

	rec := a.do(t, stdhttp.MethodPatch, "/members/"+a.f.Coord.ID+"/role", admin, map[string]any{"role": "treasurer"})
	expectStatus(t, rec, stdhttp.StatusOK)
	expectStatus(t, a.do(t, stdhttp.MethodGet, "/donations/pending", coord, nil), stdhttp.StatusOK)

	expectStatus(t, a.do(t, stdhttp.MethodPatch, "/members/"+a.f.Coord.ID+"/status", admin, nil), stdhttp.StatusOK)
	expectError(t, a.do(t, stdhttp.MethodGet, "/club", coord, nil), stdhttp.StatusForbidden, "inactive")

	members := decode[[]member.Member](t, a.do(t, stdhttp.MethodGet, "/members", admin, nil))
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
}

func TestAPI_IdempotentRecord(t *testing.T) {
	a := newAPI(t)
	coord := tokenOf(t, a.f.Coord)
	const key = "7b0c2f7e-3a41-4d55-a2a9-5b8d6e1f4c20"

	first := a.do(t, stdhttp.MethodPost, "/donations", coord, upiGift("250"), middleware.HeaderIdempotencyKey, key)
	expectStatus(t, first, stdhttp.StatusCreated)
	second := a.do(t, stdhttp.MethodPost, "/donations", coord, upiGift("250"), middleware.HeaderIdempotencyKey, key)
	expectStatus(t, second, stdhttp.StatusCreated)
	if second.Header().Get("Idempotent-Replayed") != "true" || first.Body.String() != second.Body.String() {
		t.Fatalf("second request was not a replay: %s", second.Body.String())
	}

	stats := decode[ledger.MemberStats](t, a.do(t, stdhttp.MethodGet, "/reports/me", coord, nil))
	if stats.DonationsCollected.Count != 1 {
		t.Fatalf("donations recorded = %d, want 1", stats.DonationsCollected.Count)
	}
}

func containsField(list []FieldError, field string) bool {
	for _, e := range list {
		if e.Field == field {
			return true
		}
	}
	return false
}
