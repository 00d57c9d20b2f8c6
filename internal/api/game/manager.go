package game

import (
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"quizroom-service/domain"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Options configures a RoomManager.
type Options struct {
	CodeLength   int
	CodeRetries  int
	QueueEnabled bool
	Scheduler    Scheduler
	Events       Emitter
	Logger       *zap.Logger
}

// RoomManager is the registry of open rooms, keyed by room code.
//
// Lock order is room before manager: a room unregisters itself while
// holding its own lock, so the manager never takes a room lock while
// holding its own.
type RoomManager struct {
	mu        sync.RWMutex
	rooms     map[string]*Room
	opts      Options
	enrichers []Enricher
	log       *zap.Logger
}

func NewRoomManager(opts Options) *RoomManager {
	if opts.CodeLength <= 0 {
		opts.CodeLength = 8
	}
	if opts.CodeRetries <= 0 {
		opts.CodeRetries = 100
	}
	if opts.Scheduler == nil {
		opts.Scheduler = clockScheduler{}
	}
	if opts.Events == nil {
		opts.Events = nopEmitter{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &RoomManager{
		rooms:     make(map[string]*Room),
		opts:      opts,
		enrichers: Pipeline(opts.QueueEnabled),
		log:       opts.Logger,
	}
}

// CreateRoom opens a room with username as its only member and host, then
// sends them the new code and the scores. save, if given, seeds scores for
// returning usernames (the creator included).
func (m *RoomManager) CreateRoom(username string, mailbox *Mailbox, url string, save *domain.SaveData) *Room {
	room := newRoom("", save, roomDeps{
		enrichers: m.enrichers,
		scheduler: m.opts.Scheduler,
		events:    m.opts.Events,
		onEmpty:   m.remove,
		log:       m.log,
	})

	room.mu.Lock()
	defer room.mu.Unlock()

	m.mu.Lock()
	code := m.uniqueCode()
	room.code = code
	room.log = m.log.With(zap.String("room_code", code))
	m.rooms[code] = room
	count := len(m.rooms)
	m.mu.Unlock()

	room.addUser(username, mailbox, url, true)
	room.log.Info("room created", zap.String("host", username), zap.Int("rooms", count))

	room.sendTo(room.users[username], domain.NewRoomCode{RoomCode: code})
	room.sendTo(room.users[username], domain.ScoresUpdate{Scores: room.scoresSnapshot()})
	room.emit(domain.EventRoomCreated, username)
	return room
}

// uniqueCode must be called with m.mu held.
func (m *RoomManager) uniqueCode() string {
	for range m.opts.CodeRetries {
		code := randomCode(m.opts.CodeLength)
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
	panic(domain.ErrRoomCodesSpent)
}

func randomCode(length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// GetRoom looks a room up by code.
func (m *RoomManager) GetRoom(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[code]
	return room, ok
}

// JoinRoom adds username to the room with the given code.
func (m *RoomManager) JoinRoom(code, username string, mailbox *Mailbox, url string) (*Room, error) {
	room, ok := m.GetRoom(code)
	if !ok {
		return nil, domain.ErrInvalidCode
	}
	if err := room.Join(username, mailbox, url); err != nil {
		return nil, err
	}
	return room, nil
}

// CloseRoom broadcasts room_closed and removes the room. Unknown codes are
// ignored.
func (m *RoomManager) CloseRoom(code string) {
	room, ok := m.GetRoom(code)
	if !ok {
		return
	}
	room.Close()
}

// remove is the rooms' onEmpty hook; it runs under the room's lock.
func (m *RoomManager) remove(room *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rooms[room.code] != room {
		return
	}
	delete(m.rooms, room.code)
	m.log.Info("room deleted", zap.String("room_code", room.code), zap.Int("rooms", len(m.rooms)))
}

// Stats reports the number of open rooms and the users in them.
func (m *RoomManager) Stats() (rooms, users int) {
	m.mu.RLock()
	open := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		open = append(open, room)
	}
	m.mu.RUnlock()

	for _, room := range open {
		users += room.UserCount()
	}
	return len(open), users
}
