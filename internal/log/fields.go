package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldOwnerID     = "owner_id"
	FieldCurrency    = "currency"
	FieldMonths      = "months"
	FieldPeriodFrom  = "from"
	FieldPeriodTo    = "to"
	FieldRowCount    = "rows"
	FieldRowCap      = "row_cap"
	FieldTxID        = "transaction_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentReports = "reports"
	ComponentExport  = "export"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpTrend      = "trend"
	OpMonthly    = "monthly_totals"
	OpByCategory = "by_category"
	OpSpend      = "spend_in_range"
	OpExport     = "export"
	OpList       = "list"
	OpCreate     = "create"
	OpDelete     = "delete"
	OpBackup     = "backup"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
