// Package epic fetches the Epic Games Store weekly free promotions and
// renders them into a push payload.
package epic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"epicbot/internal/transport"
	logx "epicbot/pkg/logx"
)

const defaultBaseURL = "https://store-site-backend-static-ipv4.ak.epicgames.com/freeGamesPromotions"

type Config struct {
	Locale  string
	Country string
	Timeout time.Duration
	BaseURL string // tests only; defaults to the Epic endpoint
}

func (c Config) withDefaults() Config {
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.Country == "" {
		c.Country = "US"
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	return c
}

// Client queries the free-promotions endpoint. It never propagates provider
// failures: a timeout, network error or bad status degrades to an empty game
// list, which the renderer turns into a placeholder payload.
type Client struct {
	mu   sync.Mutex
	cfg  Config
	http *http.Client
	log  logx.Logger
}

func New(cfg Config, log logx.Logger) *Client {
	if log.IsZero() {
		log = logx.Nop()
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Apply swaps provider settings at runtime (config reload).
func (c *Client) Apply(cfg Config) {
	cfg = cfg.withDefaults()
	c.mu.Lock()
	c.cfg = cfg
	c.http = &http.Client{Timeout: cfg.Timeout}
	c.mu.Unlock()
}

// FreeGames returns the rendered payload for the current promotions.
// The payload is never empty: zero fetched games yields a placeholder item.
func (c *Client) FreeGames(ctx context.Context) transport.Payload {
	games, err := c.query(ctx)
	if err != nil {
		c.log.Error("epic promotions fetch failed", logx.Err(err))
		return renderUnavailable()
	}
	return render(games, c.log)
}

func (c *Client) query(ctx context.Context) ([]game, error) {
	c.mu.Lock()
	cfg := c.cfg
	hc := c.http
	c.mu.Unlock()

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("locale", cfg.Locale)
	q.Set("country", cfg.Country)
	q.Set("allowCountries", cfg.Country)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://www.epicgames.com/store/"+cfg.Locale+"/")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.80 Safari/537.36")

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("epic api status %d", res.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("epic api decode: %w", err)
	}
	return body.Data.Catalog.SearchStore.Elements, nil
}
