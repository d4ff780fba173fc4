package push

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	logx "epicbot/pkg/logx"
)

// Janitor runs a nightly sweep that drops push-history fingerprints whose
// job no longer exists in the schedule document, so the history file does
// not accumulate entries for long-gone subscribers.
type Janitor struct {
	sched *Scheduler
	log   logx.Logger
	cron  *cron.Cron
}

func NewJanitor(sched *Scheduler, log logx.Logger) *Janitor {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Janitor{sched: sched, log: log}
}

func (j *Janitor) Start() error {
	j.cron = cron.New(cron.WithLocation(refZone))
	// 04:30 reference time, well away from typical delivery hours.
	if _, err := j.cron.AddFunc("30 4 * * *", j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := j.sched
	schedule := func() scheduleDoc {
		s.mu.Lock()
		defer s.mu.Unlock()
		return loadScheduleDoc(ctx, s.store, s.log)
	}()

	s.histMu.Lock()
	defer s.histMu.Unlock()

	history := s.loadHistoryLocked(ctx)
	removed := 0
	for id := range history {
		if _, ok := schedule[id]; !ok {
			delete(history, id)
			removed++
		}
	}
	if removed == 0 {
		return
	}
	s.saveHistoryLocked(ctx, history)
	j.log.Info("push history pruned", logx.Int("removed", removed))
}
