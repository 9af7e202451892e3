package state

import "sync"

// writeQueue serializes writes per book id in the order they were enqueued.
type writeQueue struct {
	mu    sync.Mutex
	tails map[int64]chan struct{}
}

// acquire blocks until every earlier write for id has finished. The returned
// release must be called exactly once.
func (q *writeQueue) acquire(id int64) (release func()) {
	q.mu.Lock()
	if q.tails == nil {
		q.tails = make(map[int64]chan struct{})
	}
	prev := q.tails[id]
	done := make(chan struct{})
	q.tails[id] = done
	q.mu.Unlock()

	if prev != nil {
		<-prev
	}

	return func() {
		q.mu.Lock()
		if q.tails[id] == done {
			delete(q.tails, id)
		}
		q.mu.Unlock()
		close(done)
	}
}
