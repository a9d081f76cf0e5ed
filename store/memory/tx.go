package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	confess "github.com/xraph/confess"
	"github.com/xraph/confess/access"
	"github.com/xraph/confess/content"
	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/platform"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/stats"
	confessstore "github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// compile-time interface check
var _ confessstore.Tx = (*tx)(nil)

// tx is a write overlay over the committed maps. A nil reaction marks a
// staged delete.
type tx struct {
	s    *Store
	done bool

	members     map[types.Address]access.Member
	confessions map[uint64]content.Confession
	comments    map[uint64]content.Comment
	reactions   map[reaction.Key]*reaction.Reaction
	counts      map[reaction.Subject]reaction.Counts
	reports     map[uint64]moderation.Report
	votes       map[moderation.VoteKey]moderation.Vote
	limits      map[ratelimit.Key]ratelimit.State
	counters    *stats.Counters
	platform    *platform.State
	requestKeys map[string]struct{}
}

func newTx(s *Store) *tx {
	return &tx{
		s:           s,
		members:     make(map[types.Address]access.Member),
		confessions: make(map[uint64]content.Confession),
		comments:    make(map[uint64]content.Comment),
		reactions:   make(map[reaction.Key]*reaction.Reaction),
		counts:      make(map[reaction.Subject]reaction.Counts),
		reports:     make(map[uint64]moderation.Report),
		votes:       make(map[moderation.VoteKey]moderation.Vote),
		limits:      make(map[ratelimit.Key]ratelimit.State),
		requestKeys: make(map[string]struct{}),
	}
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return confess.ErrTxDone
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.s.closed {
		return confess.ErrStoreClosed
	}

	t.s.apply(t)
	t.done = true
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return confess.ErrTxDone
	}
	t.done = true
	return nil
}

func (t *tx) check() error {
	if t.done {
		return confess.ErrTxDone
	}
	return nil
}

// ==================== Access Store ====================

func (t *tx) GetMember(_ context.Context, addr types.Address) (*access.Member, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if m, ok := t.members[addr]; ok {
		return &m, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if m, ok := t.s.members[addr]; ok {
		return &m, nil
	}
	return nil, confess.ErrMemberNotFound
}

func (t *tx) PutMember(_ context.Context, m *access.Member) error {
	if err := t.check(); err != nil {
		return err
	}
	if m.Address.IsZero() {
		return fmt.Errorf("memory: put member: %w", confess.ErrZeroAddress)
	}
	t.members[m.Address] = *m
	return nil
}

func (t *tx) CountActiveMembers(_ context.Context, now time.Time) (int64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	n := t.s.activeAt(now)
	for addr, m := range t.members {
		if prev, ok := t.s.members[addr]; ok && prev.IsActive(now) {
			n--
		}
		if m.IsActive(now) {
			n++
		}
	}
	return n, nil
}

// ==================== Content Store ====================

func (t *tx) GetConfession(_ context.Context, confessionID uint64) (*content.Confession, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if c, ok := t.confessions[confessionID]; ok {
		return &c, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if c, ok := t.s.confessions[confessionID]; ok {
		return &c, nil
	}
	return nil, confess.ErrConfessionNotFound
}

func (t *tx) PutConfession(_ context.Context, c *content.Confession) error {
	if err := t.check(); err != nil {
		return err
	}
	if c.ID == 0 || !c.Category.Valid() {
		return fmt.Errorf("memory: put confession %d: %w", c.ID, confess.ErrInvalidInput)
	}
	t.confessions[c.ID] = *c
	return nil
}

func (t *tx) ListConfessionsByCategory(_ context.Context, cat content.Category, opts content.ListOpts) ([]uint64, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if !cat.Valid() {
		return nil, confess.ErrInvalidCategory
	}

	t.s.mu.RLock()
	ids := slices.Clone(t.s.byCategory[cat])
	for _, cid := range sortedKeys(t.confessions) {
		if _, committed := t.s.confessions[cid]; !committed && t.confessions[cid].Category == cat {
			ids = append(ids, cid)
		}
	}
	t.s.mu.RUnlock()

	return content.Page(ids, opts), nil
}

func (t *tx) GetComment(_ context.Context, commentID uint64) (*content.Comment, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if c, ok := t.comments[commentID]; ok {
		return &c, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if c, ok := t.s.comments[commentID]; ok {
		return &c, nil
	}
	return nil, confess.ErrCommentNotFound
}

func (t *tx) PutComment(_ context.Context, c *content.Comment) error {
	if err := t.check(); err != nil {
		return err
	}
	if c.ID == 0 || c.ConfessionID == 0 {
		return fmt.Errorf("memory: put comment %d: %w", c.ID, confess.ErrInvalidInput)
	}
	t.comments[c.ID] = *c
	return nil
}

func (t *tx) ListComments(_ context.Context, confessionID uint64, opts content.ListOpts) ([]uint64, error) {
	if err := t.check(); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	ids := slices.Clone(t.s.commentsByConfession[confessionID])
	for _, cid := range sortedKeys(t.comments) {
		if _, committed := t.s.comments[cid]; !committed && t.comments[cid].ConfessionID == confessionID {
			ids = append(ids, cid)
		}
	}
	t.s.mu.RUnlock()

	return content.Page(ids, opts), nil
}

// ==================== Reaction Store ====================

func (t *tx) GetReaction(_ context.Context, key reaction.Key) (*reaction.Reaction, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if r, ok := t.reactions[key]; ok {
		if r == nil {
			return nil, confess.ErrNoReaction
		}
		cp := *r
		return &cp, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if r, ok := t.s.reactions[key]; ok {
		return &r, nil
	}
	return nil, confess.ErrNoReaction
}

func (t *tx) PutReaction(_ context.Context, r *reaction.Reaction) error {
	if err := t.check(); err != nil {
		return err
	}
	if !r.Type.Valid() || !r.Subject.Kind.Valid() {
		return fmt.Errorf("memory: put reaction on %s: %w", r.Subject, confess.ErrInvalidInput)
	}
	cp := *r
	t.reactions[r.Key()] = &cp
	return nil
}

func (t *tx) DeleteReaction(_ context.Context, key reaction.Key) error {
	if err := t.check(); err != nil {
		return err
	}
	t.reactions[key] = nil
	return nil
}

func (t *tx) GetReactionCounts(_ context.Context, subject reaction.Subject) (reaction.Counts, error) {
	if err := t.check(); err != nil {
		return reaction.Counts{}, err
	}
	if c, ok := t.counts[subject]; ok {
		return c, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.counts[subject], nil
}

func (t *tx) PutReactionCounts(_ context.Context, subject reaction.Subject, counts reaction.Counts) error {
	if err := t.check(); err != nil {
		return err
	}
	for _, v := range counts {
		if v < 0 {
			return fmt.Errorf("memory: negative reaction count on %s: %w", subject, confess.ErrInvalidInput)
		}
	}
	t.counts[subject] = counts
	return nil
}

// ==================== Moderation Store ====================

func (t *tx) GetReport(_ context.Context, reportID uint64) (*moderation.Report, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if r, ok := t.reports[reportID]; ok {
		return &r, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if r, ok := t.s.reports[reportID]; ok {
		return &r, nil
	}
	return nil, confess.ErrReportNotFound
}

func (t *tx) PutReport(_ context.Context, r *moderation.Report) error {
	if err := t.check(); err != nil {
		return err
	}
	if r.ID == 0 {
		return fmt.Errorf("memory: put report: %w", confess.ErrInvalidInput)
	}
	t.reports[r.ID] = *r
	return nil
}

func (t *tx) ListPendingReports(_ context.Context, opts moderation.ListOpts) ([]*moderation.Report, error) {
	if err := t.check(); err != nil {
		return nil, err
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	candidates := slices.Clone(t.s.pending)
	for _, rid := range sortedKeys(t.reports) {
		if _, committed := t.s.reports[rid]; !committed {
			candidates = append(candidates, rid)
		}
	}

	var pending []*moderation.Report
	for _, rid := range candidates {
		r, ok := t.reports[rid]
		if !ok {
			r = t.s.reports[rid]
		}
		if !r.Resolved {
			pending = append(pending, &r)
		}
	}

	if opts.Offset < 0 || opts.Offset >= len(pending) {
		return []*moderation.Report{}, nil
	}
	pending = pending[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(pending) {
		pending = pending[:opts.Limit]
	}
	return pending, nil
}

func (t *tx) GetVote(_ context.Context, key moderation.VoteKey) (*moderation.Vote, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if v, ok := t.votes[key]; ok {
		return &v, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if v, ok := t.s.votes[key]; ok {
		return &v, nil
	}
	return nil, confess.ErrNotFound
}

func (t *tx) PutVote(_ context.Context, v *moderation.Vote) error {
	if err := t.check(); err != nil {
		return err
	}
	if v.ReportID == 0 || v.Voter.IsZero() {
		return fmt.Errorf("memory: put vote: %w", confess.ErrInvalidInput)
	}
	t.votes[v.Key()] = *v
	return nil
}

// ==================== Rate limit Store ====================

func (t *tx) GetRateLimit(_ context.Context, key ratelimit.Key) (*ratelimit.State, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if l, ok := t.limits[key]; ok {
		return &l, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if l, ok := t.s.limits[key]; ok {
		return &l, nil
	}
	return &ratelimit.State{Identity: key.Identity, Action: key.Action}, nil
}

func (t *tx) PutRateLimit(_ context.Context, l *ratelimit.State) error {
	if err := t.check(); err != nil {
		return err
	}
	if !l.Action.Valid() {
		return fmt.Errorf("memory: put rate limit %s: %w", l.Key(), confess.ErrInvalidInput)
	}
	t.limits[l.Key()] = *l
	return nil
}

// ==================== Stats Store ====================

func (t *tx) GetCounters(_ context.Context) (*stats.Counters, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.counters != nil {
		c := *t.counters
		return &c, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	c := t.s.counters
	return &c, nil
}

func (t *tx) PutCounters(_ context.Context, c *stats.Counters) error {
	if err := t.check(); err != nil {
		return err
	}
	cp := *c
	t.counters = &cp
	return nil
}

// ==================== Platform Store ====================

func (t *tx) GetPlatform(_ context.Context) (*platform.State, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.platform != nil {
		p := *t.platform
		return &p, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	if t.s.platform == nil {
		return nil, confess.ErrNotFound
	}
	p := *t.s.platform
	return &p, nil
}

func (t *tx) PutPlatform(_ context.Context, p *platform.State) error {
	if err := t.check(); err != nil {
		return err
	}
	cp := *p
	t.platform = &cp
	return nil
}

// ==================== Request keys ====================

func (t *tx) HasRequestKey(_ context.Context, key string) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if _, ok := t.requestKeys[key]; ok {
		return true, nil
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	_, ok := t.s.requestKeys[key]
	return ok, nil
}

func (t *tx) PutRequestKey(_ context.Context, key string) error {
	if err := t.check(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("memory: put request key: %w", confess.ErrInvalidInput)
	}
	t.requestKeys[key] = struct{}{}
	return nil
}
