package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/safina-app/safina/internal/expense"
	"github.com/safina-app/safina/internal/filter"
	"github.com/safina-app/safina/internal/gateway"
)

// ErrMoveInFlight is returned when a second transition is attempted on
// a card whose previous commit has not reconciled yet. Operations on
// different cards may overlap freely.
var ErrMoveInFlight = errors.New("a move for this card is already in flight")

//go:generate mockgen -source=controller.go -destination=gateway_mock.go -package=board
type Gateway interface {
	ListExpenses(ctx context.Context, q gateway.ExpenseQuery) ([]expense.Request, error)
	SetExpenseStatus(ctx context.Context, id string, status expense.Status, comment string) (expense.Request, error)
	SetInternalComment(ctx context.Context, id, text string) error
}

// CardPhase is the reconciliation state of a single card.
type CardPhase int

const (
	PhaseSettled CardPhase = iota
	PhasePendingCommit
	PhaseRollingBack
)

// CardState exposes the per-card in-flight state to the UI shell.
type CardState struct {
	Phase CardPhase
	Err   error // last commit failure, cleared on the next attempt
}

type cardTrack struct {
	phase    CardPhase
	snapshot expense.Request // pre-optimistic copy, valid while pending
	err      error
}

// Column is one kanban lane of the live board.
type Column struct {
	Status expense.Status
	Cards  []expense.Request
}

// Controller owns the optimistic-update / reconciliation loop between
// board interactions and the lifecycle state machine.
type Controller struct {
	gw    Gateway
	store *Store

	mu    sync.Mutex
	cards map[string]*cardTrack
}

func NewController(gw Gateway, store *Store) *Controller {
	return &Controller{
		gw:    gw,
		store: store,
		cards: make(map[string]*cardTrack),
	}
}

// Store exposes the underlying collection for read-only consumers such
// as the export pipeline.
func (c *Controller) Store() *Store { return c.store }

// Refresh refetches the full collection and replaces the store
// wholesale. On failure the previous snapshot stays intact, so the
// board shows stale-but-consistent data with a retry affordance.
func (c *Controller) Refresh(ctx context.Context) error {
	list, err := c.gw.ListExpenses(ctx, gateway.ExpenseQuery{})
	if err != nil {
		return fmt.Errorf("refreshing expenses: %w", err)
	}

	c.store.ReplaceAll(list)

	return nil
}

// Columns buckets the filtered collection into the fixed kanban lanes.
// In-column order is fetch order; there is no priority ranking.
func (c *Controller) Columns(f filter.Filter) []Column {
	f.Scope = filter.ScopeLive
	matched := f.Apply(c.store.List())

	cols := make([]Column, len(expense.KanbanStatuses))
	for i, status := range expense.KanbanStatuses {
		cols[i] = Column{Status: status}
	}

	index := make(map[expense.Status]int, len(cols))
	for i, col := range cols {
		index[col.Status] = i
	}

	for _, r := range matched {
		i, ok := index[r.Status]
		if !ok {
			continue
		}

		cols[i].Cards = append(cols[i].Cards, r)
	}

	return cols
}

// Decide asks the lifecycle state machine about a move without touching
// any state. The UI uses it to know whether to open the annotation
// dialog before anything else happens.
func (c *Controller) Decide(id string, target expense.Status) (expense.Decision, error) {
	cur, ok := c.store.Get(id)
	if !ok {
		return expense.Decision{}, fmt.Errorf("unknown request %s", id)
	}

	return expense.Transition(cur.Status, target), nil
}

// Move runs the full drag-and-drop protocol for one card: validate,
// optimistically re-bucket, commit, then reconcile or roll back. It
// blocks until reconciliation and is safe to call concurrently for
// different cards.
func (c *Controller) Move(ctx context.Context, id string, target expense.Status, annotation string) error {
	cur, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("unknown request %s", id)
	}

	// Validation and rejection resolve locally, before any network
	// call and before the board is touched.
	if err := expense.Authorize(cur.Status, target, annotation); err != nil {
		return err
	}

	track, err := c.reserve(id, cur)
	if err != nil {
		return err
	}

	// Optimistic apply: the card re-buckets with zero latency. Only
	// the status moves; comments arrive with the authoritative record.
	optimistic := cur.Clone()
	optimistic.Status = target
	c.store.ReplaceOne(optimistic)

	updated, err := c.gw.SetExpenseStatus(ctx, id, target, annotation)
	if err != nil {
		c.rollback(id, track)
		return fmt.Errorf("committing transition of %s: %w", id, err)
	}

	// The commit response is authoritative and replaces the local copy
	// entirely. The total is re-derived from the returned items rather
	// than trusted, per the request invariant.
	if verr := updated.VerifyTotal(); verr != nil {
		slog.Warn("commit response failed total check, recomputing", "id", updated.ID, "error", verr)
		updated.TotalAmount = updated.ItemsTotal()
	}

	c.store.ReplaceOne(updated)
	c.settle(id)

	return nil
}

// SaveInternalComment commits the admin-only comment and refreshes the
// local record from the collection on success.
func (c *Controller) SaveInternalComment(ctx context.Context, id, text string) error {
	cur, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("unknown request %s", id)
	}

	if err := c.gw.SetInternalComment(ctx, id, text); err != nil {
		return fmt.Errorf("saving internal comment of %s: %w", id, err)
	}

	cur.InternalComment = text
	c.store.ReplaceOne(cur)

	return nil
}

// State reports the reconciliation phase of a card.
func (c *Controller) State(id string) CardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	track, ok := c.cards[id]
	if !ok {
		return CardState{Phase: PhaseSettled}
	}

	return CardState{Phase: track.phase, Err: track.err}
}

func (c *Controller) reserve(id string, snapshot expense.Request) (*cardTrack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if track, ok := c.cards[id]; ok && track.phase != PhaseSettled {
		return nil, ErrMoveInFlight
	}

	track := &cardTrack{phase: PhasePendingCommit, snapshot: snapshot.Clone()}
	c.cards[id] = track

	return track, nil
}

func (c *Controller) rollback(id string, track *cardTrack) {
	c.mu.Lock()
	track.phase = PhaseRollingBack
	c.mu.Unlock()

	c.store.Restore(track.snapshot)

	c.mu.Lock()
	track.phase = PhaseSettled
	track.err = fmt.Errorf("status update failed, move undone")
	c.mu.Unlock()
}

func (c *Controller) settle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cards, id)
}
