package sync

import (
	"Morris/services/game"
	"Morris/services/session"
	"context"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"
)

var (
	ErrQueueFull = errors.New("sync queue is full")
	ErrStopped   = errors.New("sync manager is stopped")
)

// PersistenceError reports a write that never reached the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

const (
	DefaultQueueSize   = 256
	DefaultTaskTimeout = 5 * time.Second
	errorBuffer        = 64
)

type task struct {
	op  string
	run func(ctx context.Context) error
}

type Option func(*SyncManager)

func WithQueueSize(n int) Option {
	return func(sm *SyncManager) {
		if n > 0 {
			sm.queueSize = n
		}
	}
}

func WithTaskTimeout(d time.Duration) Option {
	return func(sm *SyncManager) {
		if d > 0 {
			sm.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(sm *SyncManager) { sm.now = now }
}

// SyncManager pushes session writes to the durable store from a single
// background worker. Writes are executed in the order they were queued.
// Callers never wait on the store: a full queue or a stopped manager drops
// the write and reports it on Errors().
type SyncManager struct {
	store     Store
	queueSize int
	timeout   time.Duration
	now       func() time.Time

	tasks chan task
	errs  chan error
	done  chan struct{}

	mu      gosync.Mutex
	started bool
	stopped bool
}

var _ session.Gateway = (*SyncManager)(nil)

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(store Store, opts ...Option) *SyncManager {
	sm := &SyncManager{
		store:     store,
		queueSize: DefaultQueueSize,
		timeout:   DefaultTaskTimeout,
		now:       time.Now,
		errs:      make(chan error, errorBuffer),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sm)
	}
	sm.tasks = make(chan task, sm.queueSize)
	return sm
}

// Start launches the worker. Cancelling ctx has the same effect as Stop.
func (sm *SyncManager) Start(ctx context.Context) {
	sm.mu.Lock()
	if sm.started || sm.stopped {
		sm.mu.Unlock()
		return
	}
	sm.started = true
	sm.mu.Unlock()

	go sm.work()
	go func() {
		select {
		case <-ctx.Done():
			sm.Stop()
		case <-sm.done:
		}
	}()
	log.Printf("[SYNC] Worker started (queue size %d)", sm.queueSize)
}

// Stop refuses new writes and waits until the queued ones are executed.
func (sm *SyncManager) Stop() {
	sm.mu.Lock()
	if sm.stopped {
		sm.mu.Unlock()
		<-sm.done
		return
	}
	sm.stopped = true
	close(sm.tasks)
	started := sm.started
	sm.mu.Unlock()

	if !started {
		// nothing is consuming the queue, drain it here
		sm.work()
		return
	}
	<-sm.done
	log.Println("[SYNC] Worker stopped")
}

// Errors delivers failed writes. Errors are dropped when nobody reads them.
func (sm *SyncManager) Errors() <-chan error {
	return sm.errs
}

// Pending returns the number of queued writes.
func (sm *SyncManager) Pending() int {
	return len(sm.tasks)
}

func (sm *SyncManager) work() {
	defer close(sm.done)
	for t := range sm.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
		err := t.run(ctx)
		cancel()
		if err != nil {
			sm.report(&PersistenceError{Op: t.op, Err: err})
		}
	}
}

func (sm *SyncManager) enqueue(op string, run func(ctx context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.stopped {
		sm.report(&PersistenceError{Op: op, Err: ErrStopped})
		return
	}
	select {
	case sm.tasks <- task{op: op, run: run}:
	default:
		sm.report(&PersistenceError{Op: op, Err: ErrQueueFull})
	}
}

func (sm *SyncManager) report(err error) {
	log.Printf("[SYNC-ERROR] %v", err)
	select {
	case sm.errs <- err:
	default:
	}
}

func (sm *SyncManager) SaveRoom(rec session.RoomRecord) {
	sm.enqueue("save room "+rec.RoomID, func(ctx context.Context) error {
		return sm.store.SaveRoom(ctx, rec)
	})
}

func (sm *SyncManager) SaveSeat(rec session.SeatRecord) {
	sm.enqueue("save seat "+rec.RoomID+"/"+rec.PlayerID, func(ctx context.Context) error {
		return sm.store.SaveSeat(ctx, rec)
	})
}

func (sm *SyncManager) UpdateRoomStatus(roomID string, status session.RoomStatus, winner game.Symbol) {
	at := sm.now()
	sm.enqueue("update room "+roomID, func(ctx context.Context) error {
		return sm.store.UpdateRoomStatus(ctx, roomID, status, winner, at)
	})
}

func (sm *SyncManager) SaveMove(rec session.MoveRecord) {
	sm.enqueue(fmt.Sprintf("save move %s#%d", rec.RoomID, rec.MoveNumber), func(ctx context.Context) error {
		return sm.store.SaveMove(ctx, rec)
	})
}

func (sm *SyncManager) UpdateUserStats(userID string, won bool) {
	sm.enqueue("update stats "+userID, func(ctx context.Context) error {
		return sm.store.UpdateUserStats(ctx, userID, won)
	})
}

func (sm *SyncManager) MirrorRoom(snap session.RoomSnapshot) {
	at := sm.now()
	sm.enqueue("mirror room "+snap.RoomID, func(ctx context.Context) error {
		return sm.store.MirrorRoom(ctx, snap, at)
	})
}

func (sm *SyncManager) ForgetRoom(roomID string) {
	sm.enqueue("forget room "+roomID, func(ctx context.Context) error {
		return sm.store.ForgetRoom(ctx, roomID)
	})
}

func (sm *SyncManager) TrackPresence(p session.Presence) {
	sm.enqueue("track presence "+p.UserID, func(ctx context.Context) error {
		return sm.store.TrackPresence(ctx, p)
	})
}

func (sm *SyncManager) ForgetPresence(userID string) {
	sm.enqueue("forget presence "+userID, func(ctx context.Context) error {
		return sm.store.ForgetPresence(ctx, userID)
	})
}
