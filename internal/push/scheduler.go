package push

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"epicbot/internal/storage"
	"epicbot/internal/subscription"
	"epicbot/internal/transport"
	logx "epicbot/pkg/logx"
)

// refZone is the fixed reference timezone all delivery times are expressed
// in, independent of the host clock's locale.
var refZone = time.FixedZone("UTC+8", 8*60*60)

const deliverTimeout = 60 * time.Second

// Provider fetches and renders the push content. Failures surface as a
// placeholder payload, never as an error.
type Provider interface {
	FreeGames(ctx context.Context) transport.Payload
}

// Sender is the outbound half of the delivery transport.
type Sender interface {
	Send(ctx context.Context, to subscription.Subscriber, p transport.Payload) error
}

type Config struct {
	// TickInterval is the checker cadence; defaults to one minute, matching
	// the one-minute match window.
	TickInterval time.Duration
}

// jobState is the live half of a job. The owning Scheduler is solely
// responsible for closing stop before dropping the entry from the map.
type jobState struct {
	hour, minute int
	sub          subscription.Subscriber
	stop         chan struct{}

	// firedDay is the last UTC+8 calendar day this job triggered on; it is
	// only touched by the job's own checker goroutine. It guarantees one
	// trigger per day even if ticker jitter lands two ticks in the match
	// window.
	firedDay string
}

// Scheduler owns one independent checker per job and the persisted schedule
// document backing them.
type Scheduler struct {
	store    storage.Store
	registry *subscription.Registry
	provider Provider
	sender   Sender
	log      logx.Logger

	tick time.Duration
	now  func() time.Time

	mu   sync.Mutex
	jobs map[string]*jobState

	// histMu serializes read-modify-write cycles on the push history document.
	histMu sync.Mutex

	wg sync.WaitGroup
}

func NewScheduler(cfg Config, store storage.Store, registry *subscription.Registry, provider Provider, sender Sender, log logx.Logger) *Scheduler {
	if log.IsZero() {
		log = logx.Nop()
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		store:    store,
		registry: registry,
		provider: provider,
		sender:   sender,
		log:      log,
		tick:     tick,
		now:      time.Now,
		jobs:     map[string]*jobState{},
	}
}

// Add schedules (or reschedules) a daily delivery. An existing job with the
// same id is stopped and replaced; the new "minute hour" pair is persisted
// before the checker starts.
func (s *Scheduler) Add(ctx context.Context, id string, hour, minute int, sub subscription.Subscriber) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid delivery time %02d:%02d", hour, minute)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopJobLocked(id)

	doc := loadScheduleDoc(ctx, s.store, s.log)
	doc[id] = formatTime(hour, minute)
	saveScheduleDoc(ctx, s.store, s.log, doc)

	s.startJobLocked(id, hour, minute, sub)
	s.log.Info("delivery job added",
		logx.String("job", id),
		logx.String("at", fmt.Sprintf("%02d:%02d", hour, minute)))
	return nil
}

// Remove stops the job's checker (if live) and deletes its persisted entry
// regardless, so stale entries can be cleaned even after a restart.
func (s *Scheduler) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := s.stopJobLocked(id)

	doc := loadScheduleDoc(ctx, s.store, s.log)
	if _, ok := doc[id]; ok {
		delete(doc, id)
		saveScheduleDoc(ctx, s.store, s.log, doc)
	}
	if stopped {
		s.log.Info("delivery job removed", logx.String("job", id))
	}
}

// RestoreAll starts a checker for every persisted schedule entry. It never
// rewrites the document, and one malformed entry does not abort the rest.
// Returns the number of jobs restored.
func (s *Scheduler) RestoreAll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := loadScheduleDoc(ctx, s.store, s.log)
	restored := 0
	for id, raw := range doc {
		sub, err := ParseJobID(id)
		if err != nil {
			s.log.Warn("skipping schedule entry", logx.String("job", id), logx.Err(err))
			continue
		}
		hour, minute, err := parseTime(raw)
		if err != nil {
			s.log.Warn("skipping schedule entry", logx.String("job", id), logx.Err(err))
			continue
		}
		s.stopJobLocked(id)
		s.startJobLocked(id, hour, minute, sub)
		restored++
	}
	if restored > 0 {
		s.log.Info("delivery jobs restored", logx.Int("count", restored))
	}
	return restored
}

// ScheduleFor returns the persisted delivery time for a job id.
func (s *Scheduler) ScheduleFor(ctx context.Context, id string) (hour, minute int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, present := loadScheduleDoc(ctx, s.store, s.log)[id]
	if !present {
		return 0, 0, false
	}
	hour, minute, err := parseTime(raw)
	if err != nil {
		return 0, 0, false
	}
	return hour, minute, true
}

// ActiveJobs returns the ids with a live checker.
func (s *Scheduler) ActiveJobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Stop cancels all checkers and waits for them (and any spawned deliveries)
// to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id := range s.jobs {
		s.stopJobLocked(id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// stopJobLocked cancels the checker before the handle is dropped; it reports
// whether a live job existed. No tick callback starts after it returns.
func (s *Scheduler) stopJobLocked(id string) bool {
	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	close(j.stop)
	delete(s.jobs, id)
	return true
}

func (s *Scheduler) startJobLocked(id string, hour, minute int, sub subscription.Subscriber) {
	j := &jobState{hour: hour, minute: minute, sub: sub, stop: make(chan struct{})}
	s.jobs[id] = j
	s.wg.Add(1)
	go s.runChecker(id, j)
}

// runChecker ticks at the configured cadence and fires the delivery on an
// exact hour/minute match in the reference timezone. Deliveries run in their
// own goroutine so a slow or failing push never delays or stops the ticks.
func (s *Scheduler) runChecker(id string, j *jobState) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			// A tick racing the stop signal must not fire.
			select {
			case <-j.stop:
				return
			default:
			}
			now := s.now().In(refZone)
			if now.Hour() != j.hour || now.Minute() != j.minute {
				continue
			}
			day := now.Format("2006-01-02")
			if j.firedDay == day {
				continue
			}
			j.firedDay = day

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("panic in delivery",
							logx.String("job", id),
							logx.Any("panic", r),
							logx.String("stack", string(debug.Stack())))
					}
				}()
				ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
				defer cancel()
				s.executeDelivery(ctx, id, j.sub)
			}()
		}
	}
}
