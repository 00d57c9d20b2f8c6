package game

import (
	"context"
	"sync"

	"quizroom-service/domain"
)

// Mailbox is a connection's outbound queue. Any number of rooms may Put;
// only the owning connection's send duty calls Receive.
//
// With limit 0 the queue is unbounded. With a positive limit a Put on a full
// mailbox drops the oldest queued message so broadcasters never block.
type Mailbox struct {
	mu      sync.Mutex
	items   []domain.Outbound
	limit   int
	dropped int
	closed  bool
	notify  chan struct{}
	done    chan struct{}
}

func NewMailbox(limit int) *Mailbox {
	return &Mailbox{
		limit:  limit,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Put enqueues msg. It returns ErrMailboxFull when an older message had to
// be dropped to make room (msg itself is still queued) and ErrMailboxClosed
// when the mailbox no longer accepts messages.
func (m *Mailbox) Put(msg domain.Outbound) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrMailboxClosed
	}

	var err error
	if m.limit > 0 && len(m.items) >= m.limit {
		m.items[0] = nil
		m.items = m.items[1:]
		m.dropped++
		err = domain.ErrMailboxFull
	}
	m.items = append(m.items, msg)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return err
}

// Receive blocks until a message is available. After Close it keeps
// returning queued messages and then ErrMailboxClosed.
func (m *Mailbox) Receive(ctx context.Context) (domain.Outbound, error) {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			msg := m.items[0]
			m.items[0] = nil
			m.items = m.items[1:]
			m.mu.Unlock()
			return msg, nil
		}
		closed := m.closed
		m.mu.Unlock()

		if closed {
			return nil, domain.ErrMailboxClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.notify:
		case <-m.done:
		}
	}
}

// Close stops accepting messages. Already queued messages stay receivable.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Mailbox) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
