package cart

import (
	"context"
	"sync"

	"github.com/freshkart/storefront-go/internal/session"
	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/freshkart/storefront-go/pkg/enums"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
	"go.uber.org/multierr"
)

// cartAPI is the server surface the synchronizer depends on.
type cartAPI interface {
	MyCart(ctx context.Context) ([]api.CartLine, error)
	AddToCart(ctx context.Context, req api.AddToCartRequest) error
	UpdateCartQuantity(ctx context.Context, req api.UpdateCartQtyRequest) error
	RemoveFromCart(ctx context.Context, cartID int64) error
}

// sessionSource exposes the session state the synchronizer gates on.
type sessionSource interface {
	Current() session.Snapshot
	Subscribe(session.Listener)
}

// ItemAddedListener observes successful add operations, e.g. to auto-open a
// cart view.
type ItemAddedListener func(api.CartLine)

// Synchronizer owns the local view of the server cart. The server is the
// single source of truth: optimistic mutations always carry a reconciliation
// fallback that reloads authoritative state on failure.
type Synchronizer struct {
	mu   sync.Mutex
	api  cartAPI
	sess sessionSource
	logg *logger.Logger

	lines   []api.CartLine
	status  enums.CartSyncStatus
	lastErr error

	// reloadSeq/appliedSeq implement last-write-wins for concurrent reloads:
	// a reload result is applied only if no later reload has been issued.
	reloadSeq  uint64
	appliedSeq uint64

	// pending tracks line ids with an unresolved mutation; a second mutation
	// against such a line is rejected with a conflict rather than queued.
	pending map[int64]struct{}

	itemAdded []ItemAddedListener
}

// NewSynchronizer builds a synchronizer and subscribes it to session changes:
// the cart empties the moment the user is gone and reloads when a validated
// session appears.
func NewSynchronizer(client cartAPI, sess sessionSource, logg *logger.Logger) (*Synchronizer, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "session source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}

	s := &Synchronizer{
		api:     client,
		sess:    sess,
		logg:    logg,
		status:  enums.CartSyncIdle,
		pending: map[int64]struct{}{},
	}
	sess.Subscribe(s.onSessionChange)
	return s, nil
}

// OnItemAdded registers a listener for successful adds.
func (s *Synchronizer) OnItemAdded(fn ItemAddedListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.itemAdded = append(s.itemAdded, fn)
	s.mu.Unlock()
}

// Lines returns a copy of the current line set, in server order.
func (s *Synchronizer) Lines() []api.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]api.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Status returns the current synchronization status.
func (s *Synchronizer) Status() enums.CartSyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the most recent synchronization failure, if any.
func (s *Synchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsEmpty reports whether the local cart has no lines.
func (s *Synchronizer) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *Synchronizer) onSessionChange(snap session.Snapshot) {
	if snap.Authenticated() {
		if err := s.Reload(context.Background()); err != nil {
			s.logg.Warn(context.Background(), "cart reload after login failed")
		}
		return
	}
	// User gone: reset locally, no server call.
	s.mu.Lock()
	s.lines = nil
	s.status = enums.CartSyncIdle
	s.lastErr = nil
	s.pending = map[int64]struct{}{}
	s.mu.Unlock()
}

func (s *Synchronizer) requireSession() error {
	if !s.sess.Current().Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "cart requires a valid session")
	}
	return nil
}

// Reload fetches the authoritative line list and replaces local state
// wholesale. Concurrent reloads follow last-write-wins: only the most
// recently initiated reload's result is applied; stale results are dropped.
func (s *Synchronizer) Reload(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	s.mu.Lock()
	s.reloadSeq++
	seq := s.reloadSeq
	s.status = enums.CartSyncLoading
	s.mu.Unlock()

	lines, err := s.api.MyCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq || seq < s.reloadSeq {
		// A later reload already resolved, or is still in flight and will.
		return nil
	}
	s.appliedSeq = seq
	if err != nil {
		s.status = enums.CartSyncError
		s.lastErr = err
		return err
	}
	s.lines = lines
	s.status = enums.CartSyncIdle
	s.lastErr = nil
	return nil
}

// AddItem submits an add for one unit of the product, then reloads so the
// server-assigned line id and authoritative quantity (the server may merge
// into an existing line) replace any guess. No optimistic line is retained
// on failure.
func (s *Synchronizer) AddItem(ctx context.Context, product api.Product) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	if err := s.api.AddToCart(ctx, api.AddToCartRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		s.recordError(err)
		return err
	}

	if err := s.Reload(ctx); err != nil {
		return err
	}

	s.notifyItemAdded(product.ID)
	return nil
}

// UpdateQuantity optimistically applies the new quantity, then confirms with
// the server; on failure the authoritative cart is reloaded rather than
// trusting the optimistic value. Quantities below 1 are rejected locally.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.requireSession(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, busy := s.pending[lineID]; busy {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "line has an unresolved mutation")
	}
	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "no such cart line")
	}
	s.pending[lineID] = struct{}{}
	s.lines[idx].Quantity = quantity
	s.mu.Unlock()

	err := s.api.UpdateCartQuantity(ctx, api.UpdateCartQtyRequest{CartID: lineID, Quantity: quantity})

	s.mu.Lock()
	delete(s.pending, lineID)
	s.mu.Unlock()

	if err != nil {
		s.recordError(err)
		s.reconcile(ctx)
		return err
	}
	return nil
}

// RemoveItem optimistically drops the line, confirms with the server, and
// reloads on failure so a line the server never removed reappears.
func (s *Synchronizer) RemoveItem(ctx context.Context, lineID int64) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, busy := s.pending[lineID]; busy {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "line has an unresolved mutation")
	}
	idx := s.indexOfLocked(lineID)
	if idx < 0 {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "no such cart line")
	}
	s.pending[lineID] = struct{}{}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.mu.Unlock()

	err := s.api.RemoveFromCart(ctx, lineID)

	s.mu.Lock()
	delete(s.pending, lineID)
	s.mu.Unlock()

	if err != nil {
		s.recordError(err)
		s.reconcile(ctx)
		return err
	}
	return nil
}

// Clear removes every line one at a time; there is no bulk endpoint. A
// failure partway through is never reported as full success: the aggregated
// error is returned and a reload brings local state back to whatever subset
// the server actually cleared.
func (s *Synchronizer) Clear(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	s.mu.Lock()
	ids := make([]int64, 0, len(s.lines))
	for _, line := range s.lines {
		ids = append(ids, line.CartID)
	}
	s.mu.Unlock()

	var combined error
	for _, id := range ids {
		if err := s.api.RemoveFromCart(ctx, id); err != nil {
			combined = multierr.Append(combined, err)
			continue
		}
		s.mu.Lock()
		if idx := s.indexOfLocked(id); idx >= 0 {
			s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		}
		s.mu.Unlock()
	}

	if combined != nil {
		s.recordError(combined)
		s.reconcile(ctx)
		return combined
	}

	s.mu.Lock()
	s.lines = nil
	s.status = enums.CartSyncIdle
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// reconcile refreshes authoritative state after a failed mutation; its own
// failure keeps the recorded error state.
func (s *Synchronizer) reconcile(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.logg.Warn(ctx, "cart reconciliation reload failed")
	}
}

func (s *Synchronizer) recordError(err error) {
	s.mu.Lock()
	s.status = enums.CartSyncError
	s.lastErr = err
	s.mu.Unlock()
}

// indexOfLocked finds a line by server id. Caller holds the lock.
func (s *Synchronizer) indexOfLocked(lineID int64) int {
	for i, line := range s.lines {
		if line.CartID == lineID {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) notifyItemAdded(productID int64) {
	s.mu.Lock()
	var added api.CartLine
	for _, line := range s.lines {
		if line.ProductID == productID {
			added = line
			break
		}
	}
	listeners := make([]ItemAddedListener, len(s.itemAdded))
	copy(listeners, s.itemAdded)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(added)
	}
}
