package reorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

// Status represents the lifecycle of a reorder transaction
type Status string

const (
	// StatusPending means the new order is applied locally but not confirmed
	StatusPending Status = "Pending"

	// StatusCommitted means the persistence service accepted the new order
	StatusCommitted Status = "Committed"

	// StatusRolledBack means the order was rejected and local state reverted
	StatusRolledBack Status = "RolledBack"
)

var (
	// ErrReorderPending is returned while a transaction is in flight for the
	// same collection; the UI disables drag handles on it.
	ErrReorderPending = errors.New("reorder already pending for collection")

	// ErrNoDrag is returned when drop or drag-over arrives without a drag
	ErrNoDrag = errors.New("no drag in progress")
)

// Submitter is the persistence service collaborator. Retries and backoff are
// its concern, not the engine's.
type Submitter interface {
	SubmitOrder(ctx context.Context, collectionID string, orderedIDs []string) error
}

// Transaction records one optimistic reorder from drop to resolution
type Transaction struct {
	ID           string
	CollectionID string
	FromOrder    []string
	ToOrder      []string
	Status       Status
	OpenedAt     time.Time
}

// dragState tracks the gesture between BeginDrag and Drop
type dragState struct {
	collectionID string
	source       int
	target       int
}

// Service coordinates drag gestures, optimistic application, and async
// reconciliation with the persistence service.
type Service struct {
	mu          sync.Mutex
	submitter   Submitter
	collections map[string]*model.Collection
	pending     map[string]*Transaction
	confirmed   map[string][]string // last server-confirmed order per collection
	drag        *dragState
	onResult    func(*Transaction, error) // callback for UI updates
}

// NewService creates a reorder service backed by the given submitter
func NewService(submitter Submitter) *Service {
	return &Service{
		submitter:   submitter,
		collections: make(map[string]*model.Collection),
		pending:     make(map[string]*Transaction),
		confirmed:   make(map[string][]string),
	}
}

// SetResultCallback sets the callback fired when a transaction resolves.
// err is nil on commit and carries the rejection on rollback.
func (s *Service) SetResultCallback(callback func(*Transaction, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResult = callback
}

// Register makes a collection reorderable. Its current order is taken as the
// server-confirmed baseline.
func (s *Service) Register(collection *model.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection.ID] = collection
	s.confirmed[collection.ID] = collection.Order()
}

// CanDrag reports whether a drag may start on the collection right now
func (s *Service) CanDrag(collectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, inFlight := s.pending[collectionID]; inFlight {
		return false
	}
	collection, exists := s.collections[collectionID]
	return exists && collection.Len() > 1
}

// PendingTransaction returns the in-flight transaction for a collection
func (s *Service) PendingTransaction(collectionID string) (*Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, exists := s.pending[collectionID]
	return tx, exists
}

// ConfirmedOrder returns the last server-confirmed id order
func (s *Service) ConfirmedOrder(collectionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.confirmed[collectionID]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// BeginDrag starts a drag gesture on the item at sourceIndex. Rejected while
// a transaction is pending for the same collection; drags on other
// collections are unaffected.
func (s *Service) BeginDrag(collectionID string, sourceIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.pending[collectionID]; inFlight {
		return ErrReorderPending
	}
	collection, exists := s.collections[collectionID]
	if !exists {
		return fmt.Errorf("reorder: unknown collection %s", collectionID)
	}
	if sourceIndex < 0 || sourceIndex >= collection.Len() {
		return fmt.Errorf("reorder: source index %d out of range", sourceIndex)
	}

	s.drag = &dragState{collectionID: collectionID, source: sourceIndex, target: sourceIndex}
	return nil
}

// DragOver updates the drop target of the current drag
func (s *Service) DragOver(targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag == nil {
		return ErrNoDrag
	}
	collection := s.collections[s.drag.collectionID]
	if targetIndex < 0 || targetIndex >= collection.Len() {
		return fmt.Errorf("reorder: target index %d out of range", targetIndex)
	}
	s.drag.target = targetIndex
	return nil
}

// CancelDrag abandons the gesture without touching the collection
func (s *Service) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// Drop completes the gesture: the new order is applied locally at once and a
// transaction opens against the persistence service. Same-index drops and
// single-item collections are no-ops that create no transaction.
func (s *Service) Drop(ctx context.Context) (*Transaction, error) {
	s.mu.Lock()

	if s.drag == nil {
		s.mu.Unlock()
		return nil, ErrNoDrag
	}
	drag := s.drag
	s.drag = nil

	collection := s.collections[drag.collectionID]
	if drag.source == drag.target || collection.Len() < 2 {
		s.mu.Unlock()
		return nil, nil
	}
	if _, inFlight := s.pending[drag.collectionID]; inFlight {
		s.mu.Unlock()
		return nil, ErrReorderPending
	}

	fromOrder := collection.Order()
	toOrder := splice(fromOrder, drag.source, drag.target)

	tx := &Transaction{
		ID:           generateTransactionID(),
		CollectionID: drag.collectionID,
		FromOrder:    fromOrder,
		ToOrder:      toOrder,
		Status:       StatusPending,
		OpenedAt:     time.Now(),
	}
	s.pending[drag.collectionID] = tx
	s.mu.Unlock()

	// Optimistic: local order is authoritative for display until resolved
	if err := collection.ApplyOrder(toOrder); err != nil {
		s.mu.Lock()
		delete(s.pending, drag.collectionID)
		s.mu.Unlock()
		return nil, fmt.Errorf("reorder: optimistic apply failed: %w", err)
	}

	go s.submit(ctx, collection, tx)
	return tx, nil
}

// submit reconciles a pending transaction with the persistence service
func (s *Service) submit(ctx context.Context, collection *model.Collection, tx *Transaction) {
	err := s.submitter.SubmitOrder(ctx, tx.CollectionID, tx.ToOrder)

	s.mu.Lock()
	delete(s.pending, tx.CollectionID)
	if err == nil {
		tx.Status = StatusCommitted
		// Pages appended while the transaction was in flight sit after the
		// submitted ids, matching the server's own append semantics.
		s.confirmed[tx.CollectionID] = collection.Order()
	} else {
		tx.Status = StatusRolledBack
	}
	rollbackTo := s.confirmed[tx.CollectionID]
	callback := s.onResult
	s.mu.Unlock()

	if err != nil {
		log.Printf("Reorder %s rejected for collection %s: %v", tx.ID, tx.CollectionID, err)
		// Revert to the last confirmed order, which reflects any reorders
		// committed since the original drag started.
		if applyErr := collection.ApplyOrder(rollbackTo); applyErr != nil {
			log.Printf("Rollback of collection %s failed: %v", tx.CollectionID, applyErr)
		}
	}

	if callback != nil {
		callback(tx, err)
	}
}

// splice removes the item at from and reinserts it at to; every other
// item keeps its relative order.
func splice(order []string, from, to int) []string {
	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)

	moved := order[from]
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out
}

// generateTransactionID generates a unique transaction ID using UUID v7 for
// better uniqueness and time ordering
func generateTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf("tx-%d", time.Now().UnixNano())
	}
	return "tx-" + id.String()
}
