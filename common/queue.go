package common

// RequestQueue is a FIFO of requests travelling in one direction.
type RequestQueue struct {
	items []Request
}

func (q *RequestQueue) Push(r Request) {
	q.items = append(q.items, r)
}

func (q *RequestQueue) Len() int {
	return len(q.items)
}

func (q *RequestQueue) Empty() bool {
	return len(q.items) == 0
}

// TakePrefix removes and returns the first min(n, Len()) requests.
// The remainder keeps its order.
func (q *RequestQueue) TakePrefix(n int) []Request {
	if n <= 0 || len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	batch := make([]Request, n)
	copy(batch, q.items[:n])

	rest := make([]Request, len(q.items)-n)
	copy(rest, q.items[n:])
	q.items = rest
	return batch
}

func (q *RequestQueue) Clear() {
	q.items = nil
}

// Items returns a copy of the queued requests.
func (q *RequestQueue) Items() []Request {
	return CopyRequests(q.items)
}
