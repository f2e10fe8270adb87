package engine

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dm/dfsmon/internal/client"
)

const (
	DefaultInterval       = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// PollerConfig holds everything a Poller needs. Zero durations select the
// defaults; MaxInFlight <= 0 means no cap on overlapping fetches.
type PollerConfig struct {
	Client         client.Coordinator
	Tokens         TokenSource
	Sink           Sink
	Logger         *log.Logger
	Interval       time.Duration
	RequestTimeout time.Duration
	MaxInFlight    int
	Aggregate      Options
}

// Poller fetches a snapshot on every tick of a fixed interval and hands the
// aggregated summary to its Sink. A slow fetch never delays the next tick;
// fetches may overlap and complete out of order.
type Poller struct {
	cfg     PollerConfig
	logger  *log.Logger
	trigger chan struct{}
}

// NewPoller returns a Poller for cfg. Client, Tokens, and Sink are required.
func NewPoller(cfg PollerConfig) (*Poller, error) {
	if cfg.Client == nil || cfg.Tokens == nil || cfg.Sink == nil {
		return nil, errors.New("poller: client, token source, and sink are required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		cfg:     cfg,
		logger:  logger.WithPrefix("poller"),
		trigger: make(chan struct{}, 1),
	}, nil
}

// Interval returns the configured tick interval.
func (p *Poller) Interval() time.Duration {
	return p.cfg.Interval
}

// Trigger requests an immediate out-of-band poll. It never blocks; a trigger
// that arrives while another is pending is coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run polls once immediately, then once per interval, until ctx is done.
// Poll failures are reported to the sink and logged; they never stop the
// loop. Run returns ctx.Err() once in-flight fetches have returned.
func (p *Poller) Run(ctx context.Context) error {
	var g errgroup.Group
	if p.cfg.MaxInFlight > 0 {
		g.SetLimit(p.cfg.MaxInFlight)
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.Info("polling started", "interval", p.cfg.Interval)
	p.launch(ctx, &g)
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			p.logger.Info("polling stopped")
			return ctx.Err()
		case <-ticker.C:
			p.launch(ctx, &g)
		case <-p.trigger:
			p.launch(ctx, &g)
		}
	}
}

// launch starts one fetch on its own goroutine without waiting for it.
func (p *Poller) launch(ctx context.Context, g *errgroup.Group) {
	token, ok := p.cfg.Tokens.Token()
	if !ok {
		p.logger.Debug("no credential; tick skipped")
		return
	}
	id := uuid.NewString()
	started := g.TryGo(func() error {
		p.poll(ctx, id, token)
		return nil
	})
	if !started {
		p.logger.Warn("too many snapshot fetches in flight; tick dropped", "poll", id, "max", p.cfg.MaxInFlight)
	}
}

// poll performs fetch → aggregate → publish for a single tick.
func (p *Poller) poll(ctx context.Context, id, token string) {
	fctx, cancel := context.WithTimeout(client.WithRequestID(ctx, id), p.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	snap, err := p.cfg.Client.GetSnapshot(fctx, token)
	if err != nil {
		if ctx.Err() != nil {
			// Shutting down; the result would be abandoned anyway.
			return
		}
		p.logger.Warn("snapshot poll failed", "poll", id, "err", err)
		p.cfg.Sink.Failed(err)
		return
	}

	summary := Aggregate(snap, p.cfg.Aggregate)
	for _, issue := range summary.Issues {
		p.logger.Warn("snapshot inconsistency", "poll", id, "err", issue)
	}
	p.logger.Debug("snapshot received",
		"poll", id,
		"took", time.Since(start),
		"nodes", summary.Nodes.Total,
		"files", len(summary.Files),
		"chunks", len(summary.Chunks))
	p.cfg.Sink.Publish(summary)
}
