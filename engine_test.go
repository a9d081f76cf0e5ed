package confess_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/journal"
	journalmemory "github.com/xraph/confess/journal/memory"
	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/store/memory"
	"github.com/xraph/confess/types"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	ownerAddr    = types.MustAddress("0x000000000000000000000000000000000000a001")
	treasuryAddr = types.MustAddress("0x000000000000000000000000000000000000a002")
	tokenAddr    = types.MustAddress("0x000000000000000000000000000000000000a003")
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// events records the type of every event a plugin receives.
type events struct {
	mu  sync.Mutex
	got []any
}

func (*events) Name() string { return "test-events" }

func (r *events) add(evt any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, evt)
	return nil
}

func (r *events) OnAccessPurchased(_ context.Context, evt *plugin.AccessPurchased) error {
	return r.add(evt)
}

func (r *events) OnConfessionPosted(_ context.Context, evt *plugin.ConfessionPosted) error {
	return r.add(evt)
}

func (r *events) OnReportResolved(_ context.Context, evt *plugin.ReportResolved) error {
	return r.add(evt)
}

func (r *events) OnContentHidden(_ context.Context, evt *plugin.ContentHidden) error {
	return r.add(evt)
}

func (r *events) OnFundsWithdrawn(_ context.Context, evt *plugin.FundsWithdrawn) error {
	return r.add(evt)
}

func (r *events) all() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.got...)
}

type harness struct {
	t       *testing.T
	ctx     context.Context
	eng     *confess.Engine
	clock   *fakeClock
	token   *payment.MemoryToken
	journal *journalmemory.Store
	events  *events
}

func newHarness(t *testing.T, opts ...confess.Option) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		ctx:     context.Background(),
		clock:   &fakeClock{now: t0},
		token:   payment.NewMemoryToken(tokenAddr),
		journal: journalmemory.New(),
		events:  &events{},
	}
	h.eng = h.start(memory.New(), h.journal, opts...)
	return h
}

func (h *harness) start(s store.Store, j journal.Store, opts ...confess.Option) *confess.Engine {
	h.t.Helper()

	base := []confess.Option{
		confess.WithClock(h.clock),
		confess.WithJournal(j),
		confess.WithPlugin(h.events),
	}
	eng, err := confess.New(s, h.token, ownerAddr, treasuryAddr, append(base, opts...)...)
	require.NoError(h.t, err)
	require.NoError(h.t, eng.Start(h.ctx))
	return eng
}

// addr returns a distinct participant address.
func addr(n int) types.Address {
	return types.MustAddress(fmt.Sprintf("0x%040x", 0xb000+n))
}

// fund mints and approves enough for several purchases.
func (h *harness) fund(who types.Address) {
	h.t.Helper()
	h.token.Mint(who, types.WholeUSDC(10))
	require.NoError(h.t, h.token.Approve(h.ctx, who, treasuryAddr, types.WholeUSDC(10)))
}

// join funds who and buys one membership period.
func (h *harness) join(who types.Address) {
	h.t.Helper()
	h.fund(who)
	_, err := h.eng.PurchaseAccess(h.ctx, who)
	require.NoError(h.t, err)
}

var hashSeq int

// text returns a fresh content commitment and its length.
func text() (types.Hash, int) {
	hashSeq++
	s := fmt.Sprintf("confession number %d", hashSeq)
	return types.HashContent(s), len(s)
}

// post posts a confession as who and returns its id.
func (h *harness) post(who types.Address, cat content.Category) uint64 {
	h.t.Helper()
	hash, n := text()
	cid, err := h.eng.PostConfession(h.ctx, who, cat, hash, n)
	require.NoError(h.t, err)
	return cid
}

func TestNewRejectsZeroAddresses(t *testing.T) {
	s := memory.New()
	tok := payment.NewMemoryToken(tokenAddr)

	tests := []struct {
		name     string
		token    payment.Token
		owner    types.Address
		treasury types.Address
	}{
		{"zero token", payment.NewMemoryToken(types.ZeroAddress), ownerAddr, treasuryAddr},
		{"nil token", nil, ownerAddr, treasuryAddr},
		{"zero owner", tok, types.ZeroAddress, treasuryAddr},
		{"zero treasury", tok, ownerAddr, types.ZeroAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := confess.New(s, tt.token, tt.owner, tt.treasury)
			assert.ErrorIs(t, err, confess.ErrZeroAddress)
			assert.True(t, confess.IsValidation(err))
		})
	}
}

func TestMutationsRequireStart(t *testing.T) {
	eng, err := confess.New(memory.New(), payment.NewMemoryToken(tokenAddr), ownerAddr, treasuryAddr)
	require.NoError(t, err)

	_, err = eng.PurchaseAccess(context.Background(), addr(1))
	assert.ErrorIs(t, err, confess.ErrNotStarted)

	require.NoError(t, eng.Start(context.Background()))
	assert.ErrorIs(t, eng.Start(context.Background()), confess.ErrAlreadyStarted)
	require.NoError(t, eng.Stop())
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	tok := payment.NewMemoryToken(tokenAddr)

	_, err := confess.New(memory.New(), tok, ownerAddr, treasuryAddr, confess.WithPrice(0))
	assert.ErrorIs(t, err, confess.ErrInvalidAmount)

	_, err = confess.New(memory.New(), tok, ownerAddr, treasuryAddr, confess.WithAccessDuration(-time.Hour))
	assert.ErrorIs(t, err, confess.ErrInvalidInput)
}

func TestPluginsSeeCommittedEventsOnly(t *testing.T) {
	h := newHarness(t)
	member := addr(1)
	h.join(member)

	hash, _ := text()
	_, err := h.eng.PostConfession(h.ctx, member, content.CategoryLife, hash, 0)
	require.Error(t, err)
	h.post(member, content.CategoryLife)

	got := h.events.all()
	require.Len(t, got, 2)
	purchased, ok := got[0].(*plugin.AccessPurchased)
	require.True(t, ok)
	assert.False(t, purchased.Renewal)
	assert.Equal(t, confess.WholeUSDC(1), purchased.Price)
	posted, ok := got[1].(*plugin.ConfessionPosted)
	require.True(t, ok)
	assert.Equal(t, uint64(1), posted.Confession.ID)
}
