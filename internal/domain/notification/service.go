package notification

import (
	"context"
)

// Kind identifies what happened, for the external delivery channel to render.
type Kind string

const (
	KindAttendanceAutoCorrected Kind = "attendance_auto_corrected"
	KindAttendanceReviewed      Kind = "attendance_reviewed"
	KindOTSessionAutoClosed     Kind = "ot_session_auto_closed"
	KindOTSessionReviewed       Kind = "ot_session_reviewed"
	KindOTDailyCapExceeded      Kind = "ot_daily_cap_exceeded"
)

// Service is the engine's view of the external notification channel.
// Delivery is fire-and-forget: a failed Notify must never roll back the
// mutation that triggered it, so callers log and discard the error.
type Service interface {
	Notify(ctx context.Context, employeeID string, kind Kind, payload map[string]any) error
}
