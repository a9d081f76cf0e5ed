package confess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/confess/access"
	"github.com/xraph/confess/id"
	"github.com/xraph/confess/journal"
	journalmemory "github.com/xraph/confess/journal/memory"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/platform"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// Engine is the confession platform's state machine. Mutations run one at a
// time in a store transaction, are journaled before they commit, and notify
// plugins after. Reads see the latest committed state.
type Engine struct {
	mu      sync.Mutex
	store   store.Store
	journal journal.Store
	token   payment.Token
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   Clock

	owner      types.Address
	treasury   types.Address
	price      types.Amount
	duration   time.Duration
	limits     ratelimit.Policies
	moderation moderation.Settings

	seq     uint64
	started bool
	// diverged is set when a journaled command failed to commit. The journal
	// holds the command, so only a restart brings the state back in line.
	diverged error
}

// New creates an engine over s that collects fees in token. owner holds the
// administrative role; treasury receives purchases and funds withdrawals.
func New(s store.Store, token payment.Token, owner, treasury types.Address, opts ...Option) (*Engine, error) {
	if token == nil || token.Address().IsZero() {
		return nil, fmt.Errorf("token: %w", ErrZeroAddress)
	}
	if owner.IsZero() {
		return nil, fmt.Errorf("owner: %w", ErrZeroAddress)
	}
	if treasury.IsZero() {
		return nil, fmt.Errorf("treasury: %w", ErrZeroAddress)
	}

	e := &Engine{
		store:      s,
		token:      token,
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		clock:      SystemClock{},
		owner:      owner,
		treasury:   treasury,
		price:      access.DefaultPrice,
		duration:   access.DefaultDuration,
		limits:     ratelimit.DefaultPolicies(),
		moderation: moderation.DefaultSettings(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.journal == nil {
		e.journal = journalmemory.New()
	}
	if err := e.moderation.Validate(); err != nil {
		return nil, ValidationError{Field: "moderation", Message: err.Error(), Err: ErrInvalidSettings}
	}
	if e.price <= 0 {
		return nil, ValidationError{Field: "price", Message: "must be positive", Err: ErrInvalidAmount}
	}
	if e.duration <= 0 {
		return nil, ValidationError{Field: "duration", Message: "must be positive"}
	}

	return e, nil
}

// Start migrates the journal, seeds the platform record, replays every
// journaled command and initialises plugins.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}
	if err := e.journal.Migrate(ctx); err != nil {
		return err
	}
	if err := e.seedPlatform(ctx); err != nil {
		return err
	}

	begin := time.Now()
	last, err := journal.Replay(ctx, e.journal, func(entry *journal.Entry) error {
		return e.replay(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReplayFailed, err)
	}
	e.seq = last
	e.started = true

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("confess engine started",
		"replayed", last,
		"replay_elapsed", time.Since(begin),
		"token", e.token.Address(),
		"price", e.price,
		"access_duration", e.duration,
	)
	return nil
}

// Stop shuts down plugins and closes the journal and store.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return ErrNotStarted
	}
	e.started = false

	e.plugins.EmitShutdown(context.Background())

	var errs MultiError
	errs.Add(e.journal.Close())
	errs.Add(e.store.Close())
	return errs.ErrorOrNil()
}

func (e *Engine) seedPlatform(ctx context.Context) error {
	return store.WithTx(ctx, e.store, func(tx store.Tx) error {
		_, err := tx.GetPlatform(ctx)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return err
		}
		return tx.PutPlatform(ctx, &platform.State{
			Owner:      e.owner,
			Token:      e.token.Address(),
			Treasury:   e.treasury,
			Moderation: e.moderation,
		})
	})
}

// ──────────────────────────────────────────────────
// Execution
// ──────────────────────────────────────────────────

// op carries one command's execution through the dispatcher.
type op struct {
	ctx  context.Context
	tx   store.Tx
	now  time.Time
	live bool

	events []any
	// charged is set once a live purchase has pulled funds from the payer.
	charged *charge
}

type charge struct {
	payer  types.Address
	amount types.Amount
}

func (o *op) emit(evt any) {
	if o.live {
		o.events = append(o.events, evt)
	}
}

// Execute applies cmd at the current time. It is the single entry point
// for every mutation; the typed methods on Engine wrap it.
func (e *Engine) Execute(ctx context.Context, cmd Command) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, ErrNotStarted
	}
	if e.diverged != nil {
		return nil, e.diverged
	}

	o := &op{ctx: ctx, now: e.now(), live: true}
	key := RequestKey(ctx)

	var (
		result   any
		appended *journal.Entry
	)
	err := store.WithTx(ctx, e.store, func(tx store.Tx) error {
		o.tx = tx
		if err := e.claimRequestKey(ctx, tx, key); err != nil {
			return err
		}

		res, err := e.apply(o, cmd)
		if err != nil {
			return err
		}
		result = res

		appended, err = e.append(ctx, cmd, key, o.now)
		return err
	})
	if err != nil && appended != nil {
		// The command is durable and replays on restart, so the payment stays.
		e.seq = appended.Seq
		e.diverged = fmt.Errorf("%w: entry %d (%s): %w", ErrStateDiverged, appended.Seq, appended.Kind, err)
		e.logger.Error("confess commit failed after journal append",
			"kind", cmd.Kind(),
			"seq", appended.Seq,
			"error", err,
		)
		return nil, e.diverged
	}
	if err != nil {
		e.refund(ctx, o.charged, cmd)
		e.logger.Debug("confess command rejected",
			"kind", cmd.Kind(),
			"error", err,
		)
		return nil, err
	}
	e.seq = appended.Seq

	e.logger.Debug("confess command committed",
		"kind", cmd.Kind(),
		"seq", e.seq,
		"at", o.now,
	)

	for _, evt := range o.events {
		e.plugins.Emit(ctx, evt)
	}
	return result, nil
}

func (e *Engine) claimRequestKey(ctx context.Context, tx store.Tx, key string) error {
	if key == "" {
		return nil
	}
	seen, err := tx.HasRequestKey(ctx, key)
	if err != nil {
		return err
	}
	if seen {
		return fmt.Errorf("%w: %s", ErrDuplicateRequest, key)
	}
	return tx.PutRequestKey(ctx, key)
}

// append journals cmd as the entry after e.seq. The caller advances e.seq
// once the state commit settles.
func (e *Engine) append(ctx context.Context, cmd Command, key string, at time.Time) (*journal.Entry, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("confess: encode %s: %w", cmd.Kind(), err)
	}
	entry := &journal.Entry{
		Seq:        e.seq + 1,
		ID:         id.NewOperationID(),
		Kind:       cmd.Kind(),
		Payload:    payload,
		RequestKey: key,
		At:         at,
	}
	if err := e.journal.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournalAppend, err)
	}
	return entry, nil
}

// refund returns a purchase payment when the command failed after the
// transfer went through.
func (e *Engine) refund(ctx context.Context, c *charge, cmd Command) {
	if c == nil {
		return
	}
	if err := e.token.Transfer(ctx, e.treasury, c.payer, c.amount); err != nil {
		e.logger.Error("confess refund failed",
			"kind", cmd.Kind(),
			"payer", c.payer,
			"amount", c.amount,
			"error", err,
		)
		return
	}
	e.logger.Warn("confess payment refunded",
		"kind", cmd.Kind(),
		"payer", c.payer,
		"amount", c.amount,
	)
}

// replay re-applies one journaled command at its recorded time. The payment
// collaborator is not called and nothing is emitted or appended.
func (e *Engine) replay(ctx context.Context, entry *journal.Entry) error {
	cmd, err := DecodeCommand(entry.Kind, entry.Payload)
	if err != nil {
		return fmt.Errorf("entry %d: %w", entry.Seq, err)
	}

	o := &op{ctx: ctx, now: entry.At.UTC()}
	err = store.WithTx(ctx, e.store, func(tx store.Tx) error {
		o.tx = tx
		if err := e.claimRequestKey(ctx, tx, entry.RequestKey); err != nil {
			return err
		}
		_, err := e.apply(o, cmd)
		return err
	})
	if err != nil {
		return fmt.Errorf("entry %d (%s): %w", entry.Seq, entry.Kind, err)
	}
	return nil
}

// apply dispatches cmd to its handler.
func (e *Engine) apply(o *op, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case *PurchaseAccess:
		return e.applyPurchaseAccess(o, c)
	case *PostConfession:
		return e.applyPostConfession(o, c)
	case *PostComment:
		return e.applyPostComment(o, c)
	case *React:
		return nil, e.applyReact(o, c)
	case *ChangeReaction:
		return nil, e.applyChangeReaction(o, c)
	case *RemoveReaction:
		return nil, e.applyRemoveReaction(o, c)
	case *ReportContent:
		return e.applyReportContent(o, c)
	case *VoteOnReport:
		return e.applyVoteOnReport(o, c)
	case *UpdateModerationSettings:
		return nil, e.applyUpdateModerationSettings(o, c)
	case *EmergencyHideConfession:
		return nil, e.applyEmergencyHide(o, c)
	case *WithdrawFunds:
		return nil, e.applyWithdrawFunds(o, c)
	case *TransferOwnership:
		return nil, e.applyTransferOwnership(o, c)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}

// ──────────────────────────────────────────────────
// Shared preconditions
// ──────────────────────────────────────────────────

// requireAccess fails ErrNoActiveAccess unless who holds a live membership.
func requireAccess(o *op, who types.Address) error {
	m, err := o.tx.GetMember(o.ctx, who)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return err
	}
	if !m.IsActive(o.now) {
		return ErrNoActiveAccess
	}
	return nil
}

// requireOwner fails ErrUnauthorized unless caller holds the owner role.
func requireOwner(o *op, caller types.Address) (*platform.State, error) {
	p, err := o.tx.GetPlatform(o.ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsOwner(caller) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return p, nil
}

// limit checks and records one rate-limited action. Replay only records:
// the journal holds actions that already passed their limits.
func (e *Engine) limit(o *op, who types.Address, action ratelimit.Action) error {
	policy, ok := e.limits[action]
	if !ok {
		return nil
	}
	st, err := o.tx.GetRateLimit(o.ctx, ratelimit.Key{Identity: who, Action: action})
	if err != nil {
		return err
	}
	if o.live {
		if err := policy.Check(*st, o.now); err != nil {
			return err
		}
	}
	next := policy.Record(*st, o.now)
	return o.tx.PutRateLimit(o.ctx, &next)
}

func requireAddress(field string, addr types.Address) error {
	if addr.IsZero() {
		return ValidationError{Field: field, Message: "must not be the zero address", Err: ErrZeroAddress}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────

// view runs fn against committed state.
func (e *Engine) view(ctx context.Context, fn func(tx store.Tx) error) error {
	return store.View(ctx, e.store, fn)
}

// now is the execution time at the precision every journal keeps, so a
// replayed command sees the same instant it ran at.
func (e *Engine) now() time.Time { return e.clock.Now().UTC().Truncate(journal.Precision) }

// Plugins returns the engine's plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Token returns the payment collaborator.
func (e *Engine) Token() payment.Token { return e.token }

// Treasury returns the address that collects access fees.
func (e *Engine) Treasury() types.Address { return e.treasury }

// Price returns the fee for one membership period.
func (e *Engine) Price() types.Amount { return e.price }

// AccessDuration returns the length of one membership period.
func (e *Engine) AccessDuration() time.Duration { return e.duration }

// LastSeq returns the sequence of the last journaled command.
func (e *Engine) LastSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}
