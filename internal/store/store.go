// Package store holds the mirrored expense collection and its request
// lifecycle. Every operation goes through the remote collaborator first and
// mutates local state only on success, so the mirror never drifts ahead of
// the source of truth. Local-only side effects (attachment cascade, change
// events) never fail an operation.
package store

import (
	"context"
	"log/slog"
	"sync"

	"expensedash/internal/core"
)

// Event operation names carried on published change events.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Remote is the expense collection API the store mirrors.
type Remote interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	CreateExpense(ctx context.Context, draft core.ExpenseDraft) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// Publisher announces successful mutations to downstream consumers.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, op, expenseID string) error
}

// AttachmentRemover is the cascade target for expense deletions.
type AttachmentRemover interface {
	Remove(expenseID string)
}

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	Expenses []core.Expense
	Current  *core.Expense
	Period   core.TimePeriod
	Loading  bool
	Err      error
}

// Store is safe for concurrent use. When operations overlap, the one that
// finishes last owns the loading flag and the error slot; callers that need
// strict ordering serialize on their side.
type Store struct {
	remote      Remote
	publisher   Publisher
	attachments AttachmentRemover

	mu       sync.RWMutex
	expenses []core.Expense
	current  *core.Expense
	period   core.TimePeriod
	loading  bool
	err      error
}

// New builds a store over the remote collection. publisher and attachments
// may be nil.
func New(remote Remote, publisher Publisher, attachments AttachmentRemover) *Store {
	return &Store{
		remote:      remote,
		publisher:   publisher,
		attachments: attachments,
		period:      core.PeriodAll,
	}
}

// Fetch replaces the local collection with the remote one. On failure the
// previous collection is kept and the error is recorded.
func (s *Store) Fetch(ctx context.Context) error {
	s.begin()
	expenses, err := s.remote.ListExpenses(ctx)
	if err != nil {
		s.finish(err)
		return err
	}
	s.mu.Lock()
	s.expenses = expenses
	s.loading = false
	s.mu.Unlock()
	return nil
}

// FetchByID loads a single record and makes it the current selection.
func (s *Store) FetchByID(ctx context.Context, id string) (core.Expense, error) {
	s.begin()
	e, err := s.remote.GetExpense(ctx, id)
	if err != nil {
		s.finish(err)
		return core.Expense{}, err
	}
	s.mu.Lock()
	s.current = &e
	s.loading = false
	s.mu.Unlock()
	return e, nil
}

// Create validates the draft, submits it and appends the remote's record.
// A validation failure is reported without any dispatch or state change
// beyond the error slot.
func (s *Store) Create(ctx context.Context, draft core.ExpenseDraft) (core.Expense, error) {
	if err := draft.Validate(); err != nil {
		s.setErr(err)
		return core.Expense{}, err
	}
	s.begin()
	created, err := s.remote.CreateExpense(ctx, draft)
	if err != nil {
		s.finish(err)
		return core.Expense{}, err
	}
	s.mu.Lock()
	s.expenses = append(s.expenses, created)
	s.loading = false
	s.mu.Unlock()

	s.publish(ctx, OpCreated, created.ID)
	return created, nil
}

// Update validates and submits a full replacement of the record with e.ID,
// then swaps the returned record into the collection. An id absent from the
// local collection leaves the list untouched.
func (s *Store) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		s.setErr(err)
		return core.Expense{}, err
	}
	s.begin()
	updated, err := s.remote.UpdateExpense(ctx, e)
	if err != nil {
		s.finish(err)
		return core.Expense{}, err
	}
	s.mu.Lock()
	for i := range s.expenses {
		if s.expenses[i].ID == updated.ID {
			s.expenses[i] = updated
			break
		}
	}
	if s.current != nil && s.current.ID == updated.ID {
		s.current = &updated
	}
	s.loading = false
	s.mu.Unlock()

	s.publish(ctx, OpUpdated, updated.ID)
	return updated, nil
}

// Delete removes the record remotely, then locally, clears the selection if
// it pointed at the record and cascades the attachment removal.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.remote.DeleteExpense(ctx, id); err != nil {
		s.finish(err)
		return err
	}
	s.mu.Lock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.loading = false
	s.mu.Unlock()

	if s.attachments != nil {
		s.attachments.Remove(id)
	}
	s.publish(ctx, OpDeleted, id)
	return nil
}

// SetPeriod changes the active time window.
func (s *Store) SetPeriod(p core.TimePeriod) error {
	if !p.IsValid() {
		return core.ErrInvalidPeriod
	}
	s.mu.Lock()
	s.period = p
	s.mu.Unlock()
	return nil
}

// ClearCurrent drops the single-record selection.
func (s *Store) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// ClearError acknowledges and drops the recorded error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// Snapshot copies the current state. The expenses slice and current pointer
// are detached from the store's internals.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Expenses: make([]core.Expense, len(s.expenses)),
		Period:   s.period,
		Loading:  s.loading,
		Err:      s.err,
	}
	copy(snap.Expenses, s.expenses)
	if s.current != nil {
		cur := *s.current
		snap.Current = &cur
	}
	return snap
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *Store) finish(err error) {
	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Store) publish(ctx context.Context, op, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, op, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense event", "op", op, "expense_id", id, "error", err)
	}
}
