package telemetry

// Audit event names emitted by the archive core.
const (
	EventItemArchived      = "item_archived"
	EventItemRestored      = "item_restored"
	EventArchiveReconciled = "archive_reconciled"
	EventCommandExecuted   = "command_executed"
	EventCommandError      = "command_error"
)
