// Package telegram is the delivery transport: a telebot.v4 adapter plus the
// bot's fixed command surface.
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"epicbot/internal/subscription"
	"epicbot/internal/transport"
	logx "epicbot/pkg/logx"
)

type Config struct {
	Token       string
	PollTimeout time.Duration
	RatePerSec  int
}

type Adapter struct {
	cfg Config
	log logx.Logger

	bot     *tele.Bot
	limiter *rate.Limiter

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}

	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 20
	}

	return &Adapter{
		cfg:     cfg,
		log:     log,
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (a *Adapter) Start(ctx context.Context) error {
	a.runMu.Lock()
	if a.running {
		a.runMu.Unlock()
		return nil
	}
	a.running = true
	a.stop = make(chan struct{})
	stop := a.stop
	a.runMu.Unlock()

	go a.bot.Start()
	go func() {
		select {
		case <-ctx.Done():
			_ = a.Stop(context.Background())
		case <-stop:
		}
	}()

	a.log.Info("telegram adapter started")
	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	_ = ctx
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return nil
	}
	a.running = false
	close(a.stop)
	a.bot.Stop()
	a.log.Info("telegram adapter stopped")
	return nil
}

// Send pushes every payload item to the subscriber's chat, in order, under
// the outbound rate limit. Item failures don't abort the rest; the joined
// error is returned so the caller can log it.
func (a *Adapter) Send(ctx context.Context, to subscription.Subscriber, p transport.Payload) error {
	chatID, err := strconv.ParseInt(to.Subject, 10, 64)
	if err != nil {
		return errors.New("subscriber subject is not a chat id: " + to.Subject)
	}
	rec := &tele.Chat{ID: chatID}

	var errs []error
	for _, item := range p.Items {
		if err := a.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		switch item.Kind {
		case transport.ItemImage:
			_, err = a.bot.Send(rec, &tele.Photo{File: tele.FromURL(item.URL)})
		default:
			_, err = a.bot.Send(rec, item.Text, &tele.SendOptions{DisableWebPagePreview: true})
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
