package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultHookTimeout bounds how long a single plugin hook may run.
const DefaultHookTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// Hook interfaces are discovered once at registration time.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onAccessPurchased      []OnAccessPurchased
	onConfessionPosted     []OnConfessionPosted
	onCommentPosted        []OnCommentPosted
	onReactionAdded        []OnReactionAdded
	onReactionChanged      []OnReactionChanged
	onReactionRemoved      []OnReactionRemoved
	onReportCreated        []OnReportCreated
	onReportVoted          []OnReportVoted
	onReportResolved       []OnReportResolved
	onContentHidden        []OnContentHidden
	onFundsWithdrawn       []OnFundsWithdrawn
	onSettingsUpdated      []OnSettingsUpdated
	onOwnershipTransferred []OnOwnershipTransferred
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultHookTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	var hooks []string
	cache := func(name string, ok bool) {
		if ok {
			hooks = append(hooks, name)
		}
	}
	cache("OnInit", register(p, &r.onInit))
	cache("OnShutdown", register(p, &r.onShutdown))
	cache("OnAccessPurchased", register(p, &r.onAccessPurchased))
	cache("OnConfessionPosted", register(p, &r.onConfessionPosted))
	cache("OnCommentPosted", register(p, &r.onCommentPosted))
	cache("OnReactionAdded", register(p, &r.onReactionAdded))
	cache("OnReactionChanged", register(p, &r.onReactionChanged))
	cache("OnReactionRemoved", register(p, &r.onReactionRemoved))
	cache("OnReportCreated", register(p, &r.onReportCreated))
	cache("OnReportVoted", register(p, &r.onReportVoted))
	cache("OnReportResolved", register(p, &r.onReportResolved))
	cache("OnContentHidden", register(p, &r.onContentHidden))
	cache("OnFundsWithdrawn", register(p, &r.onFundsWithdrawn))
	cache("OnSettingsUpdated", register(p, &r.onSettingsUpdated))
	cache("OnOwnershipTransferred", register(p, &r.onOwnershipTransferred))

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", hooks,
	)

	return nil
}

// register appends p to list when it implements the hook H.
func register[H Plugin](p Plugin, list *[]H) bool {
	h, ok := p.(H)
	if ok {
		*list = append(*list, h)
	}
	return ok
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	dispatch(ctx, r, "OnInit", &r.onInit, func(p OnInit) error {
		return p.OnInit(ctx, engine)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	dispatch(ctx, r, "OnShutdown", &r.onShutdown, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// Emit routes a committed event to the plugins subscribed to its hook.
func (r *Registry) Emit(ctx context.Context, event any) {
	switch evt := event.(type) {
	case *AccessPurchased:
		dispatch(ctx, r, "OnAccessPurchased", &r.onAccessPurchased, func(p OnAccessPurchased) error {
			return p.OnAccessPurchased(ctx, evt)
		})
	case *ConfessionPosted:
		dispatch(ctx, r, "OnConfessionPosted", &r.onConfessionPosted, func(p OnConfessionPosted) error {
			return p.OnConfessionPosted(ctx, evt)
		})
	case *CommentPosted:
		dispatch(ctx, r, "OnCommentPosted", &r.onCommentPosted, func(p OnCommentPosted) error {
			return p.OnCommentPosted(ctx, evt)
		})
	case *ReactionAdded:
		dispatch(ctx, r, "OnReactionAdded", &r.onReactionAdded, func(p OnReactionAdded) error {
			return p.OnReactionAdded(ctx, evt)
		})
	case *ReactionChanged:
		dispatch(ctx, r, "OnReactionChanged", &r.onReactionChanged, func(p OnReactionChanged) error {
			return p.OnReactionChanged(ctx, evt)
		})
	case *ReactionRemoved:
		dispatch(ctx, r, "OnReactionRemoved", &r.onReactionRemoved, func(p OnReactionRemoved) error {
			return p.OnReactionRemoved(ctx, evt)
		})
	case *ReportCreated:
		dispatch(ctx, r, "OnReportCreated", &r.onReportCreated, func(p OnReportCreated) error {
			return p.OnReportCreated(ctx, evt)
		})
	case *ReportVoted:
		dispatch(ctx, r, "OnReportVoted", &r.onReportVoted, func(p OnReportVoted) error {
			return p.OnReportVoted(ctx, evt)
		})
	case *ReportResolved:
		dispatch(ctx, r, "OnReportResolved", &r.onReportResolved, func(p OnReportResolved) error {
			return p.OnReportResolved(ctx, evt)
		})
	case *ContentHidden:
		dispatch(ctx, r, "OnContentHidden", &r.onContentHidden, func(p OnContentHidden) error {
			return p.OnContentHidden(ctx, evt)
		})
	case *FundsWithdrawn:
		dispatch(ctx, r, "OnFundsWithdrawn", &r.onFundsWithdrawn, func(p OnFundsWithdrawn) error {
			return p.OnFundsWithdrawn(ctx, evt)
		})
	case *SettingsUpdated:
		dispatch(ctx, r, "OnSettingsUpdated", &r.onSettingsUpdated, func(p OnSettingsUpdated) error {
			return p.OnSettingsUpdated(ctx, evt)
		})
	case *OwnershipTransferred:
		dispatch(ctx, r, "OnOwnershipTransferred", &r.onOwnershipTransferred, func(p OnOwnershipTransferred) error {
			return p.OnOwnershipTransferred(ctx, evt)
		})
	default:
		r.logger.Warn("plugin: unknown event type", "type", fmt.Sprintf("%T", event))
	}
}

// dispatch calls fn for every plugin in the cached hook list. Failures are
// logged and never reach the caller: the mutation has already committed.
func dispatch[H Plugin](ctx context.Context, r *Registry, hook string, cached *[]H, fn func(H) error) {
	r.mu.RLock()
	plugins := *cached
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return fn(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the engine.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
