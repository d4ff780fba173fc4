package push

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"epicbot/internal/storage"
	"epicbot/internal/transport"
	logx "epicbot/pkg/logx"
)

// fingerprint is a stable content hash over the payload's deterministic
// JSON form. Two renders of the same content always hash equal.
func fingerprint(p transport.Payload) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// historyDoc maps job id to the fingerprint of the last evaluated payload.
type historyDoc map[string]string

// shouldDeliver is the idempotence gate: it returns false without touching
// state when the payload matches the job's last fingerprint, otherwise it
// records the new fingerprint (persisting immediately) and returns true.
//
// The fingerprint advances before the send happens, so content counts as
// seen even if the send later fails; a failed push is not retried until the
// content changes again.
func (s *Scheduler) shouldDeliver(ctx context.Context, jobID string, p transport.Payload) bool {
	fp := fingerprint(p)

	s.histMu.Lock()
	defer s.histMu.Unlock()

	doc := s.loadHistoryLocked(ctx)
	if doc[jobID] == fp {
		return false
	}
	doc[jobID] = fp
	s.saveHistoryLocked(ctx, doc)
	return true
}

func (s *Scheduler) loadHistoryLocked(ctx context.Context) historyDoc {
	doc := historyDoc{}
	b, err := s.store.Load(ctx, storage.DocPushHistory)
	if err != nil {
		s.log.Warn("push history load failed", logx.Err(err))
		return doc
	}
	if len(b) == 0 {
		return doc
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		s.log.Warn("push history malformed; treating as empty", logx.Err(err))
		return historyDoc{}
	}
	return doc
}

func (s *Scheduler) saveHistoryLocked(ctx context.Context, doc historyDoc) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.log.Error("push history marshal failed", logx.Err(err))
		return
	}
	if err := s.store.Save(ctx, storage.DocPushHistory, b); err != nil {
		s.log.Error("push history save failed", logx.Err(err))
	}
}
