// Package poller schedules background price collection: on a fixed
// interval it resolves a price for every tracked symbol and appends
// the results to history as one batch.
package poller

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paperstreet/stocksim/internal/engine"
)

const defaultInterval = 5 * time.Minute

// EventPublisher receives a notification after each successful batch
// write. A nil publisher disables notifications.
type EventPublisher interface {
	PublishPollCompleted(ctx context.Context, symbols []string) error
}

// Poller drives periodic price collection for the union of configured
// symbols, symbols held by users, and symbols already in history.
type Poller struct {
	engine   *engine.Engine
	symbols  []string
	interval time.Duration
	events   EventPublisher

	// inFlight guards against overlapping cycles; an overlapping
	// PollOnce is a no-op.
	inFlight atomic.Bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a Poller over the given engine. symbols is the
// configured tracked set; a zero interval falls back to the default.
func New(e *engine.Engine, symbols []string, interval time.Duration, events EventPublisher) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		engine:   e,
		symbols:  symbols,
		interval: interval,
		events:   events,
	}
}

// InProgress reports whether a poll cycle is currently running.
func (p *Poller) InProgress() bool {
	return p.inFlight.Load()
}

// PollOnce runs a single poll cycle: resolve prices for all tracked
// symbols concurrently, then persist them in one batch write. If a
// cycle is already in progress the call returns immediately without
// doing anything. Only a store-level write failure is returned as an
// error; price resolution never fails.
func (p *Poller) PollOnce(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		log.Println("Poll already in progress, skipping")
		return nil
	}
	defer p.inFlight.Store(false)

	symbols := p.pollSet()
	if len(symbols) == 0 {
		return nil
	}

	prices := make(map[string]float64, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, s := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			price := p.engine.Resolve(ctx, sym)
			mu.Lock()
			prices[sym] = price
			mu.Unlock()
		}(s)
	}
	wg.Wait()

	if err := p.engine.Store().AppendBatch(prices, time.Now()); err != nil {
		log.Printf("Poll batch write failed: %v", err)
		return fmt.Errorf("failed to write poll batch: %w", err)
	}
	log.Printf("Poll cycle recorded %d symbols", len(prices))

	if p.events != nil {
		if err := p.events.PublishPollCompleted(ctx, symbols); err != nil {
			log.Printf("Failed to publish poll event: %v", err)
		}
	}
	return nil
}

// pollSet returns the sorted union of configured symbols, user-held
// symbols, symbols already in history, and the default seed symbols.
// Store read failures degrade to an empty contribution.
func (p *Poller) pollSet() []string {
	seen := make(map[string]struct{})
	add := func(symbols []string) {
		for _, s := range symbols {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			seen[s] = struct{}{}
		}
	}

	add(p.symbols)
	add(engine.DefaultSymbols())

	hs := p.engine.Store()
	if held, err := hs.HoldingSymbols(); err != nil {
		log.Printf("Failed to read held symbols: %v", err)
	} else {
		add(held)
	}
	if existing, err := hs.Symbols(); err != nil {
		log.Printf("Failed to read history symbols: %v", err)
	} else {
		add(existing)
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Start runs one immediate poll cycle and then polls on the configured
// interval until Stop is called. Calling Start on a running poller is
// a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		log.Println("Poller already running")
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.PollOnce(context.Background()); err != nil {
			log.Printf("Initial poll failed: %v", err)
		}

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if err := p.PollOnce(context.Background()); err != nil {
					log.Printf("Poll cycle failed: %v", err)
				}
			}
		}
	}()

	log.Printf("Poller started (interval %s)", p.interval)
}

// Stop halts the poll loop and waits for the current cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	log.Println("Poller stopped")
}
