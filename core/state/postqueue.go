package state

import "github.com/paytokens/contractvm/core/types"

// PostQueue is the per-transaction FIFO of deferred messages seeded by the
// primary message and grown by the POST opcode. spec.md's Design Notes call
// persisting this through the store "incidental"; an in-memory queue is
// sufficient and is not subject to snapshot rollback -- a POST survives
// even if the frame that issued it later runs out of gas, since spec.md §6
// lists only storage writes, balance changes, and suicides as undone by a
// rollback.
type PostQueue struct {
	messages []types.Message
}

// NewPostQueue returns an empty queue.
func NewPostQueue() *PostQueue {
	return &PostQueue{}
}

// Push appends a message to the tail of the queue.
func (q *PostQueue) Push(m types.Message) {
	q.messages = append(q.messages, m)
}

// Pop removes and returns the message at the head of the queue, and whether
// one was present.
func (q *PostQueue) Pop() (types.Message, bool) {
	if len(q.messages) == 0 {
		return types.Message{}, false
	}
	m := q.messages[0]
	q.messages = q.messages[1:]
	return m, true
}

// Empty reports whether the queue has been fully drained.
func (q *PostQueue) Empty() bool {
	return len(q.messages) == 0
}
