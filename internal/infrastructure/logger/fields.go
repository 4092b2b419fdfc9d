package logger

// Field names used in structured log lines.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldClubID     = "club_id"
	FieldMemberID   = "member_id"
	FieldEntityID   = "entity_id"
	FieldKind       = "kind"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDonation  = "donation"
	ComponentExpense   = "expense"
	ComponentReport    = "report"
	ComponentClub      = "club"
	ComponentEvent     = "event"
	ComponentIdentity  = "identity"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentAMQP      = "amqp"
	ComponentMigration = "migration"
)
