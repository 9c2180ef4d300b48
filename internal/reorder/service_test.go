package reorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
)

// fakeSubmitter is a controllable persistence service stand-in. Each submit
// optionally blocks on the gate and then returns the queued result.
type fakeSubmitter struct {
	mu    sync.Mutex
	calls [][]string
	errs  []error
	gate  chan struct{}
}

func (f *fakeSubmitter) SubmitOrder(_ context.Context, _ string, orderedIDs []string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderedIDs)
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestCollection(ids ...string) *model.Collection {
	items := make([]*model.MediaDescriptor, len(ids))
	for i, id := range ids {
		items[i] = &model.MediaDescriptor{ID: id, Kind: model.KindImage}
	}
	return model.NewCollection("post-1", items...)
}

// resultWaiter funnels transaction resolutions into a channel
func resultWaiter(s *Service) chan *Transaction {
	done := make(chan *Transaction, 4)
	s.SetResultCallback(func(tx *Transaction, _ error) { done <- tx })
	return done
}

func awaitTx(t *testing.T, done chan *Transaction) *Transaction {
	t.Helper()
	select {
	case tx := <-done:
		return tx
	case <-time.After(2 * time.Second):
		t.Fatal("transaction did not resolve in time")
		return nil
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		order    []string
		from     int
		to       int
		expected []string
	}{
		{[]string{"a", "b", "c", "d"}, 1, 2, []string{"a", "c", "b", "d"}},
		{[]string{"a", "b", "c", "d"}, 0, 3, []string{"b", "c", "d", "a"}},
		{[]string{"a", "b", "c", "d"}, 3, 0, []string{"d", "a", "b", "c"}},
		{[]string{"a", "b"}, 0, 1, []string{"b", "a"}},
	}

	for _, test := range tests {
		result := splice(test.order, test.from, test.to)
		assert.Equal(t, test.expected, result, "splice(%v, %d, %d)", test.order, test.from, test.to)
	}
}

func TestDrop_AppliesOptimisticallyAndCommits(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c", "d")
	s.Register(col)
	done := resultWaiter(s)

	require.NoError(t, s.BeginDrag("post-1", 1))
	require.NoError(t, s.DragOver(2))
	tx, err := s.Drop(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)

	// Local order changed before the server answered
	assert.Equal(t, []string{"a", "c", "b", "d"}, col.Order())

	resolved := awaitTx(t, done)
	assert.Equal(t, StatusCommitted, resolved.Status)
	assert.Equal(t, []string{"a", "b", "c", "d"}, resolved.FromOrder)
	assert.Equal(t, []string{"a", "c", "b", "d"}, resolved.ToOrder)
	assert.Equal(t, []string{"a", "c", "b", "d"}, s.ConfirmedOrder("post-1"))
	assert.Equal(t, 1, submitter.callCount())
}

func TestDrop_SameIndexIsNoOp(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c")
	s.Register(col)

	require.NoError(t, s.BeginDrag("post-1", 1))
	tx, err := s.Drop(context.Background())

	require.NoError(t, err)
	assert.Nil(t, tx, "same-index drop creates no transaction")
	assert.Equal(t, []string{"a", "b", "c"}, col.Order())
	assert.Equal(t, 0, submitter.callCount())
}

func TestSingleItemCollection_CannotReorder(t *testing.T) {
	s := NewService(&fakeSubmitter{})
	col := newTestCollection("only")
	s.Register(col)

	assert.False(t, s.CanDrag("post-1"))

	require.NoError(t, s.BeginDrag("post-1", 0))
	tx, err := s.Drop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestDrop_RollsBackOnRejection(t *testing.T) {
	submitter := &fakeSubmitter{errs: []error{errors.New("409 conflict")}}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c", "d")
	s.Register(col)

	var gotErr error
	done := make(chan *Transaction, 1)
	s.SetResultCallback(func(tx *Transaction, err error) {
		gotErr = err
		done <- tx
	})

	require.NoError(t, s.BeginDrag("post-1", 0))
	require.NoError(t, s.DragOver(3))
	_, err := s.Drop(context.Background())
	require.NoError(t, err)

	resolved := awaitTx(t, done)
	assert.Equal(t, StatusRolledBack, resolved.Status)
	assert.Error(t, gotErr)
	assert.Equal(t, []string{"a", "b", "c", "d"}, col.Order(), "order reverted to confirmed baseline")
}

func TestRollback_TargetsLastCommittedOrder(t *testing.T) {
	// First reorder commits, second is rejected: the rollback must restore
	// the first reorder's result, not the pre-drag original.
	submitter := &fakeSubmitter{errs: []error{nil, errors.New("rejected")}}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c", "d")
	s.Register(col)
	done := resultWaiter(s)

	require.NoError(t, s.BeginDrag("post-1", 1))
	require.NoError(t, s.DragOver(2))
	_, err := s.Drop(context.Background())
	require.NoError(t, err)
	first := awaitTx(t, done)
	require.Equal(t, StatusCommitted, first.Status)
	committed := []string{"a", "c", "b", "d"}
	require.Equal(t, committed, col.Order())

	require.NoError(t, s.BeginDrag("post-1", 3))
	require.NoError(t, s.DragOver(0))
	_, err = s.Drop(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"d", "a", "c", "b"}, col.Order(), "second reorder applied optimistically")

	second := awaitTx(t, done)
	assert.Equal(t, StatusRolledBack, second.Status)
	assert.Equal(t, committed, col.Order(), "rollback restores the last committed order")
}

func TestBeginDrag_RejectedWhilePending(t *testing.T) {
	submitter := &fakeSubmitter{gate: make(chan struct{})}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c")
	other := model.NewCollection("post-2",
		&model.MediaDescriptor{ID: "x", Kind: model.KindImage},
		&model.MediaDescriptor{ID: "y", Kind: model.KindImage})
	s.Register(col)
	s.Register(other)
	done := resultWaiter(s)

	require.NoError(t, s.BeginDrag("post-1", 0))
	require.NoError(t, s.DragOver(2))
	_, err := s.Drop(context.Background())
	require.NoError(t, err)

	// In flight: same collection is locked out and untouched by the attempt
	orderBefore := col.Order()
	assert.ErrorIs(t, s.BeginDrag("post-1", 0), ErrReorderPending)
	assert.False(t, s.CanDrag("post-1"))
	assert.Equal(t, orderBefore, col.Order())

	// Other collections are unaffected
	assert.True(t, s.CanDrag("post-2"))
	require.NoError(t, s.BeginDrag("post-2", 0))
	s.CancelDrag()

	close(submitter.gate)
	awaitTx(t, done)
	assert.True(t, s.CanDrag("post-1"), "lockout lifts once the transaction resolves")
}

func TestPageAppendDuringPendingTransaction(t *testing.T) {
	submitter := &fakeSubmitter{gate: make(chan struct{})}
	s := NewService(submitter)
	col := newTestCollection("a", "b", "c")
	s.Register(col)
	done := resultWaiter(s)

	require.NoError(t, s.BeginDrag("post-1", 0))
	require.NoError(t, s.DragOver(2))
	_, err := s.Drop(context.Background())
	require.NoError(t, err)

	// A page lands while the transaction is pending; it appends after all
	// existing indices and cannot disturb the pending mapping.
	col.Append([]*model.MediaDescriptor{{ID: "e", Kind: model.KindImage}})

	close(submitter.gate)
	resolved := awaitTx(t, done)

	assert.Equal(t, StatusCommitted, resolved.Status)
	assert.Equal(t, []string{"b", "c", "a", "e"}, col.Order())
	assert.Equal(t, []string{"b", "c", "a", "e"}, s.ConfirmedOrder("post-1"))
}

func TestDragValidation(t *testing.T) {
	s := NewService(&fakeSubmitter{})
	col := newTestCollection("a", "b")
	s.Register(col)

	assert.Error(t, s.BeginDrag("nope", 0), "unknown collection")
	assert.Error(t, s.BeginDrag("post-1", 5), "source out of range")
	assert.ErrorIs(t, s.DragOver(1), ErrNoDrag)

	_, err := s.Drop(context.Background())
	assert.ErrorIs(t, err, ErrNoDrag)

	require.NoError(t, s.BeginDrag("post-1", 0))
	assert.Error(t, s.DragOver(9), "target out of range")

	s.CancelDrag()
	_, err = s.Drop(context.Background())
	assert.ErrorIs(t, err, ErrNoDrag)
	assert.Equal(t, []string{"a", "b"}, col.Order())
}
