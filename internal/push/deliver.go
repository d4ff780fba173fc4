package push

import (
	"context"

	"epicbot/internal/subscription"
	logx "epicbot/pkg/logx"
)

// executeDelivery runs one scheduled push cycle for a job:
// membership re-check, content fetch, dedup gate, send.
func (s *Scheduler) executeDelivery(ctx context.Context, jobID string, sub subscription.Subscriber) {
	s.log.Info("delivery triggered", logx.String("job", jobID))

	// A subscriber removed out-of-band leaves an orphaned job behind;
	// detect it here and self-heal instead of pushing to a gone target.
	if !s.registry.Contains(ctx, sub) {
		s.log.Warn("subscriber no longer registered; removing job", logx.String("job", jobID))
		s.Remove(ctx, jobID)
		return
	}

	payload := s.provider.FreeGames(ctx)

	if !s.shouldDeliver(ctx, jobID, payload) {
		s.log.Info("content unchanged; delivery skipped", logx.String("job", jobID))
		return
	}

	if err := s.sender.Send(ctx, sub, payload); err != nil {
		// The fingerprint has already advanced: this content counts as seen
		// and will not be re-pushed until it changes.
		s.log.Error("delivery send failed", logx.String("job", jobID), logx.Err(err))
		return
	}
	s.log.Info("delivery sent", logx.String("job", jobID), logx.Int("items", len(payload.Items)))
}

// DeliverNow fetches and sends to one subscriber immediately, bypassing the
// time gate and leaving the dedup history untouched. Used for manual queries.
func (s *Scheduler) DeliverNow(ctx context.Context, sub subscription.Subscriber) error {
	payload := s.provider.FreeGames(ctx)
	return s.sender.Send(ctx, sub, payload)
}
