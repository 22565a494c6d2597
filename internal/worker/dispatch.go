// Package worker runs the background dispatcher that delivers planned
// broadcasts.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ignite/botconsole/internal/domain"
	"github.com/ignite/botconsole/internal/pkg/distlock"
	"github.com/ignite/botconsole/internal/pkg/logger"
	"github.com/ignite/botconsole/internal/targeting"
)

// Sender delivers one rendered message to one bot user on their platform.
type Sender interface {
	Send(ctx context.Context, user domain.BotUser, text string) error
}

// Store is the dispatch queue: pending broadcasts in, terminal states out.
type Store interface {
	PendingBroadcasts(ctx context.Context, limit int) ([]domain.Broadcast, error)
	MarkDispatched(ctx context.Context, id string, status domain.BroadcastStatus, sent, failed int) error
}

// TemplateSource loads the template a broadcast references.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id string) (*domain.BroadcastTemplate, error)
}

// RecipientLoader loads full user records for rendering and delivery.
type RecipientLoader interface {
	Recipients(ctx context.Context, ids []string) ([]domain.BotUser, error)
}

// Renderer renders template content against per-recipient variables.
type Renderer interface {
	Render(content string, vars map[string]interface{}) (string, error)
}

// DispatcherConfig holds dispatch loop settings.
type DispatcherConfig struct {
	Interval  time.Duration
	BatchSize int
}

// Dispatcher drains pending broadcasts. The recipient set is re-resolved
// from the stored selector at dispatch time, so users tagged between plan
// and dispatch are included. A distributed lock keeps one instance draining
// at a time; transitions out of pending are one-way.
type Dispatcher struct {
	store     Store
	templates TemplateSource
	users     RecipientLoader
	resolver  *targeting.Resolver
	render    Renderer
	sender    Sender
	lock      distlock.DistLock

	interval  time.Duration
	batchSize int

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(store Store, templates TemplateSource, users RecipientLoader,
	resolver *targeting.Resolver, render Renderer, sender Sender,
	lock distlock.DistLock, cfg DispatcherConfig) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &Dispatcher{
		store:     store,
		templates: templates,
		users:     users,
		resolver:  resolver,
		render:    render,
		sender:    sender,
		lock:      lock,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
	}
}

// Start launches the dispatch loop.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("dispatcher already running")
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.running = true

	d.wg.Add(1)
	go d.loop()
	return nil
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.Tick(d.ctx)
		}
	}
}

// Tick claims the dispatch lock and drains one batch of pending broadcasts.
// When another instance holds the lock the tick is a no-op.
func (d *Dispatcher) Tick(ctx context.Context) {
	ok, err := d.lock.Acquire(ctx)
	if err != nil {
		logger.Error("dispatch lock acquire failed", "error", err.Error())
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := d.lock.Release(ctx); err != nil {
			logger.Warn("dispatch lock release failed", "error", err.Error())
		}
	}()

	pending, err := d.store.PendingBroadcasts(ctx, d.batchSize)
	if err != nil {
		logger.Error("list pending broadcasts failed", "error", err.Error())
		return
	}

	for i := range pending {
		if ctx.Err() != nil {
			return
		}
		d.dispatchOne(ctx, &pending[i])
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, b *domain.Broadcast) {
	t, err := d.templates.GetTemplate(ctx, b.TemplateID)
	if err != nil {
		logger.Error("broadcast template unavailable",
			"broadcast_id", b.ID, "template_id", b.TemplateID, "error", err.Error())
		d.settle(ctx, b.ID, domain.BroadcastFailed, 0, 0)
		return
	}

	sel := targeting.Selector{
		IncludeTags: b.Tags,
		ExcludeTags: b.ExcludeTags,
		Intersect:   b.Intersect,
		IncludeAll:  b.SendToAll,
	}
	set, err := d.resolver.Resolve(ctx, sel)
	if err != nil {
		logger.Error("broadcast recipient resolution failed",
			"broadcast_id", b.ID, "error", err.Error())
		d.settle(ctx, b.ID, domain.BroadcastFailed, 0, 0)
		return
	}

	recipients, err := d.users.Recipients(ctx, set.IDs())
	if err != nil {
		logger.Error("broadcast recipient load failed",
			"broadcast_id", b.ID, "error", err.Error())
		d.settle(ctx, b.ID, domain.BroadcastFailed, 0, 0)
		return
	}

	var sent, failed int
	for i := range recipients {
		u := &recipients[i]
		text, err := d.render.Render(t.Content, renderVars(u))
		if err != nil {
			logger.Warn("broadcast render failed",
				"broadcast_id", b.ID, "chat_user_id", u.ChatUserID, "error", err.Error())
			failed++
			continue
		}
		if err := d.sender.Send(ctx, *u, text); err != nil {
			logger.Warn("broadcast send failed",
				"broadcast_id", b.ID, "chat_user_id", u.ChatUserID, "error", err.Error())
			failed++
			continue
		}
		sent++
	}

	status := domain.BroadcastSent
	if failed > 0 && sent == 0 {
		status = domain.BroadcastFailed
	}
	d.settle(ctx, b.ID, status, sent, failed)

	logger.Info("broadcast dispatched",
		"broadcast_id", b.ID, "template_id", t.ID,
		"sent", sent, "failed", failed, "status", string(status))
}

func (d *Dispatcher) settle(ctx context.Context, id string, status domain.BroadcastStatus, sent, failed int) {
	if err := d.store.MarkDispatched(ctx, id, status, sent, failed); err != nil {
		logger.Error("broadcast state transition failed",
			"broadcast_id", id, "status", string(status), "error", err.Error())
	}
}

// renderVars builds the per-recipient template bindings. Keys must stay in
// step with message.RecipientFields, which Validate enforces at save time.
func renderVars(u *domain.BotUser) map[string]interface{} {
	return map[string]interface{}{
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"language":     u.Language,
		"platform":     u.Platform,
		"chat_user_id": u.ChatUserID,
	}
}
