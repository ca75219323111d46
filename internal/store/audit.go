package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cipherlab/internal/demo"
	"cipherlab/internal/models"
)

// DefaultWriteTimeout bounds one audit insert; the controller waits for it.
const DefaultWriteTimeout = 2 * time.Second

type AuditWriter interface {
	WriteAudit(ctx context.Context, l *models.AuditLog) error
}

// Auditor turns controller events into audit rows. Write failures are logged
// and otherwise ignored so the demo keeps working without a database.
type Auditor struct {
	w       AuditWriter
	lg      *zap.SugaredLogger
	now     func() time.Time
	timeout time.Duration
}

func NewAuditor(w AuditWriter, lg *zap.SugaredLogger, now func() time.Time) *Auditor {
	if now == nil {
		now = time.Now
	}
	return &Auditor{w: w, lg: lg, now: now, timeout: DefaultWriteTimeout}
}

func (a *Auditor) Observe(ctx context.Context, e demo.Event) {
	switch e.Action {
	case "process", "generate", "switch_mode":
	default:
		return
	}
	md, err := models.NewJSONB(map[string]any{
		"mode":        e.Mode,
		"size":        e.Size,
		"duration_ms": e.Duration.Milliseconds(),
	})
	if err != nil {
		a.lg.Warnw("audit metadata", "error", err)
		return
	}
	l := &models.AuditLog{
		SessionID: e.SessionID,
		Algorithm: e.Algorithm,
		Action:    e.Action,
		Outcome:   e.Outcome,
		Metadata:  md,
		CreatedAt: a.now(),
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.w.WriteAudit(ctx, l); err != nil {
		a.lg.Warnw("audit write failed", "session", e.SessionID, "action", e.Action, "error", err)
	}
}
