package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quizroom-service/domain"
)

type manualTimer struct {
	s       *manualScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler only runs deferred calls when the test fires them.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every pending timer and reports how many ran.
func (s *manualScheduler) fire() int {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (s *manualScheduler) pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.d)
		}
	}
	return out
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.RoomEvent
}

func (e *recordingEmitter) Emit(evt domain.RoomEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, evt := range e.events {
		out = append(out, evt.Type)
	}
	return out
}

type fixture struct {
	manager   *RoomManager
	scheduler *manualScheduler
	events    *recordingEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		scheduler: &manualScheduler{},
		events:    &recordingEmitter{},
	}
	f.manager = NewRoomManager(Options{
		QueueEnabled: true,
		Scheduler:    f.scheduler,
		Events:       f.events,
		Logger:       zap.NewNop(),
	})
	return f
}

// room creates a room hosted by the first username; the rest join it. All
// mailboxes are drained before returning.
func (f *fixture) room(t *testing.T, usernames ...string) (*Room, map[string]*Mailbox) {
	t.Helper()
	boxes := make(map[string]*Mailbox, len(usernames))
	boxes[usernames[0]] = NewMailbox(0)
	room := f.manager.CreateRoom(usernames[0], boxes[usernames[0]], "url-"+usernames[0], nil)
	for _, username := range usernames[1:] {
		boxes[username] = NewMailbox(0)
		_, err := f.manager.JoinRoom(room.Code(), username, boxes[username], "url-"+username)
		require.NoError(t, err)
	}
	for _, box := range boxes {
		drain(box)
	}
	return room, boxes
}

func drain(m *Mailbox) []domain.Outbound {
	var out []domain.Outbound
	for m.Len() > 0 {
		msg, err := m.Receive(context.Background())
		if err != nil {
			break
		}
		out = append(out, msg)
	}
	return out
}

func typesOf(msgs []domain.Outbound) []domain.MessageType {
	out := make([]domain.MessageType, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, msg.OutboundType())
	}
	return out
}

// last returns the last message of type T.
func last[T domain.Outbound](t *testing.T, msgs []domain.Outbound) T {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msg, ok := msgs[i].(T); ok {
			return msg
		}
	}
	var zero T
	require.Failf(t, "message not found", "no %T in %v", zero, typesOf(msgs))
	return zero
}

func ptr[T any](v T) *T {
	return &v
}
