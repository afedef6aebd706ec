package session

// WaitingEntry is a user waiting for a random opponent.
type WaitingEntry struct {
	UserID   string
	Username string
	Conn     Conn
}

// MatchmakingQueue is a strict FIFO wait-list holding at most one entry per
// user. It is not safe for concurrent use; the Coordinator serializes access.
type MatchmakingQueue struct {
	entries []WaitingEntry
}

func NewMatchmakingQueue() *MatchmakingQueue {
	return &MatchmakingQueue{}
}

// Enqueue appends the entry and returns its 1-based position. It reports
// false, leaving the queue untouched, when the user is already waiting.
func (q *MatchmakingQueue) Enqueue(e WaitingEntry) (int, bool) {
	if q.Contains(e.UserID) {
		return 0, false
	}
	q.entries = append(q.entries, e)
	return len(q.entries), true
}

// DequeuePair removes and returns the two oldest entries.
func (q *MatchmakingQueue) DequeuePair() (WaitingEntry, WaitingEntry, bool) {
	if len(q.entries) < 2 {
		return WaitingEntry{}, WaitingEntry{}, false
	}
	a, b := q.entries[0], q.entries[1]
	q.entries = append(q.entries[:0:0], q.entries[2:]...)
	return a, b, true
}

// Remove drops the user's entry if present.
func (q *MatchmakingQueue) Remove(userID string) bool {
	return q.removeWhere(func(e WaitingEntry) bool { return e.UserID == userID })
}

// RemoveConn drops the entry bound to the given connection if present.
func (q *MatchmakingQueue) RemoveConn(connID string) bool {
	return q.removeWhere(func(e WaitingEntry) bool { return e.Conn.ID() == connID })
}

func (q *MatchmakingQueue) Contains(userID string) bool {
	return q.Position(userID) > 0
}

// Position returns the 1-based position of the user, or 0 when absent.
func (q *MatchmakingQueue) Position(userID string) int {
	for i, e := range q.entries {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}

func (q *MatchmakingQueue) Len() int {
	return len(q.entries)
}

func (q *MatchmakingQueue) removeWhere(match func(WaitingEntry) bool) bool {
	for i, e := range q.entries {
		if match(e) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}
