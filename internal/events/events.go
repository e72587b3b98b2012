// Package events carries in-process notifications of newly submitted votes
// to the admin review stream. Delivery is best-effort: a slow subscriber
// loses events rather than stalling a submitter, and the admin queue's
// refresh path never depends on this channel.
package events

import (
	"sync"

	"github.com/swtichedxp/Naotems-poll/internal/models"
)

const subscriberBuffer = 16

type Bus struct {
	mu   sync.Mutex
	subs map[int]chan models.Vote
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan models.Vote)}
}

// Subscribe registers a listener for submitted votes. The returned id must
// be passed to Unsubscribe when the listener goes away.
func (b *Bus) Subscribe() (int, <-chan models.Vote) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan models.Vote, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans a vote out to all subscribers without blocking. Full
// subscriber buffers drop the event; refresh covers the gap.
func (b *Bus) Publish(v models.Vote) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
}
