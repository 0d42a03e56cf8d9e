// driver/queue.go
package driver

import "sync"

// pendingQueue is the multi-producer, single-consumer hand-off for
// not-yet-transmitted command frames. Producers never block; frames
// drain in FIFO admission order on the engine goroutine. Once closed,
// pushes are silently dropped: commands issued during or after shutdown
// favor a clean teardown over delivery.
type pendingQueue struct {
	mu     sync.Mutex
	items  [][]byte
	closed bool
}

// push appends a frame, reporting false if the queue is closed and the
// frame was dropped.
func (q *pendingQueue) push(frame []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, frame)
	return true
}

// drain removes and returns all queued frames in FIFO order.
func (q *pendingQueue) drain() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// shutdown closes the queue and discards anything still pending.
func (q *pendingQueue) shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}
