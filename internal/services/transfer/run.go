package transfer

import (
	"context"
	"log/slog"
	"time"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
)

// run tracks one operation through the ledger state machine.
type run struct {
	kind    string
	stage   Stage
	amount  int64
	started time.Time
	log     *slog.Logger
}

func (s *service) begin(kind string, log *slog.Logger) *run {
	return &run{kind: kind, stage: StageValidating, started: time.Now(), log: log}
}

func (r *run) advance(stage Stage) {
	r.stage = stage
}

// finish records the outcome. A failure reports the stage it aborted in.
func (s *service) finish(ctx context.Context, r *run, err error) {
	s.metrics.RecordOperationDuration(r.kind, time.Since(r.started))

	if err == nil {
		r.stage = StageCommitted
		s.metrics.RecordOperationResult(r.kind, "success")
		s.metrics.RecordVolume(r.kind, r.amount)
		r.log.InfoContext(ctx, "operation committed", sl.Int64("amount", r.amount))
		return
	}

	failedAt := r.stage
	r.stage = StageAborted
	kind := appErrors.KindOf(err)
	s.metrics.RecordOperationResult(r.kind, string(kind))
	s.metrics.RecordAbort(r.kind, string(failedAt))

	level := slog.LevelWarn
	switch kind {
	case appErrors.KindValidation, appErrors.KindNotFound, appErrors.KindInsufficientFunds, appErrors.KindLimitExceeded:
		level = slog.LevelInfo
	case appErrors.KindInternal, appErrors.KindReconciliationRequired:
		level = slog.LevelError
	}
	r.log.Log(ctx, level, "operation aborted",
		sl.String("stage", string(failedAt)),
		sl.String("kind", string(kind)),
		sl.Err(err),
	)
}
