package game

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"quizroom-service/domain"
)

// User is one connected participant of a room.
type User struct {
	Username string
	mailbox  *Mailbox
	host     bool
	url      string
	score    domain.Score
}

// Room is the shared state of one quiz session. Every exported method holds
// the room lock for its whole duration, as do timer callbacks, so compound
// read-modify-write sequences never interleave within a room.
type Room struct {
	mu sync.Mutex

	code   string
	users  map[string]*User
	order  []string
	closed bool

	// liveScores outlives the users in it: a user leaving mid-quiz keeps a
	// finished entry until the quiz completes.
	liveScores map[string]*domain.LiveScore

	queue         []domain.QueueEntry
	queueInterval *float64
	countdown     Timer
	countdownGen  uint64

	pollData *domain.PollData
	vote     *voteState
	voteGen  uint64

	// saved scores restorable once per username
	saved map[string]domain.Score

	enrichers []Enricher
	scheduler Scheduler
	events    Emitter
	onEmpty   func(*Room)
	log       *zap.Logger
}

type roomDeps struct {
	enrichers []Enricher
	scheduler Scheduler
	events    Emitter
	onEmpty   func(*Room)
	log       *zap.Logger
}

func newRoom(code string, save *domain.SaveData, deps roomDeps) *Room {
	r := &Room{
		code:       code,
		users:      make(map[string]*User),
		liveScores: make(map[string]*domain.LiveScore),
		queue:      []domain.QueueEntry{},
		saved:      make(map[string]domain.Score),
		enrichers:  deps.enrichers,
		scheduler:  deps.scheduler,
		events:     deps.events,
		onEmpty:    deps.onEmpty,
		log:        deps.log.With(zap.String("room_code", code)),
	}
	if save != nil {
		for username, score := range save.Scores {
			r.saved[username] = score
		}
	}
	return r
}

func (r *Room) Code() string {
	return r.code
}

// Closed reports whether the room has been shut down.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// addUser inserts a new user, restoring a saved score at most once.
func (r *Room) addUser(username string, mailbox *Mailbox, url string, host bool) *User {
	score := domain.Score{}
	if saved, ok := r.saved[username]; ok {
		score = saved
		delete(r.saved, username)
	}
	user := &User{Username: username, mailbox: mailbox, host: host, url: url, score: score}
	r.users[username] = user
	r.order = append(r.order, username)
	return user
}

// Join adds username to the room as a non-host.
func (r *Room) Join(username string, mailbox *Mailbox, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.ErrInvalidCode
	}
	if _, taken := r.users[username]; taken {
		return domain.ErrUsernameTaken
	}

	user := r.addUser(username, mailbox, url, false)
	r.log.Info("user joined room", zap.String("username", username), zap.Int("users", len(r.users)))

	r.sendTo(user, domain.JoinRoomReply{Success: true})
	r.broadcast(domain.ScoresUpdate{Scores: r.scoresSnapshot()})
	r.sendToHosts(domain.URLUpdateNotice{Username: username, URL: url})
	r.emit(domain.EventUserJoined, username)
	return nil
}

// Leave removes username. A live score the user still holds is marked
// finished first, so a running quiz can complete without them.
func (r *Room) Leave(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if r.closed || !ok {
		return
	}

	delete(r.users, username)
	r.order = slices.DeleteFunc(r.order, func(name string) bool { return name == username })
	r.log.Info("user left room", zap.String("username", username), zap.Int("users", len(r.users)))
	r.emit(domain.EventUserLeft, username)

	if _, playing := r.liveScores[username]; playing {
		r.finishLiveScore(username)
	}

	if len(r.users) == 0 {
		r.shutdown()
		return
	}

	r.broadcast(domain.ScoresUpdate{Scores: r.scoresSnapshot()})
	if !user.host {
		return
	}
	if len(r.hostList()) == 0 {
		r.promote(r.users[r.order[0]])
		return
	}
	r.broadcastHosts()
}

// Close notifies every member that the room is gone and shuts it down.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.broadcast(domain.RoomClosed{RoomCode: r.code})
	r.shutdown()
}

// shutdown marks the room closed, stops its timers and unregisters it.
func (r *Room) shutdown() {
	r.closed = true
	r.cancelCountdownTimer()
	if r.vote != nil && r.vote.timer != nil {
		r.vote.timer.Stop()
	}
	r.vote = nil
	r.emit(domain.EventRoomDeleted, "")
	if r.onEmpty != nil {
		r.onEmpty(r)
	}
}

// Promote makes username a host.
func (r *Room) Promote(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.ErrRoomClosed
	}
	user, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.promote(user)
	return nil
}

// ChangeHost hands host rights from oldHost to newHost. The promotion runs
// first so the room is never without a host.
func (r *Room) ChangeHost(oldHost, newHost string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.ErrRoomClosed
	}
	next, ok := r.users[newHost]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.promote(next)
	if prev, ok := r.users[oldHost]; ok && prev != next {
		prev.host = false
		r.broadcastHosts()
	}
	return nil
}

func (r *Room) promote(user *User) {
	user.host = true
	r.log.Info("user promoted to host", zap.String("username", user.Username))
	r.sendTo(user, domain.HostPromotionNotice{})
	r.broadcastHosts()
}

// UpdateURL records the quiz a user is viewing and tells the hosts.
func (r *Room) UpdateURL(username, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.member(username)
	if err != nil {
		return err
	}
	user.url = url
	r.sendToHosts(domain.URLUpdateNotice{Username: username, URL: url})
	return nil
}

// ChangeQuiz points every member at url.
func (r *Room) ChangeQuiz(username, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	r.broadcast(domain.ChangeQuizNotice{URL: url})
	return nil
}

// SuggestQuiz forwards a member's suggestion to the hosts.
func (r *Room) SuggestQuiz(username string, msg domain.SuggestQuiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	r.sendToHosts(domain.SuggestQuizForward{Username: username, URL: msg.URL, Fields: msg.Fields})
	return nil
}

// Broadcast sends msg, through the outbound pipeline, to every member.
func (r *Room) Broadcast(msg domain.Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.broadcast(msg)
}

// SendTo sends msg, through the outbound pipeline, to one member.
func (r *Room) SendTo(username string, msg domain.Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.member(username)
	if err != nil {
		return err
	}
	r.sendTo(user, msg)
	return nil
}

// SaveData snapshots the current scores for persistence.
func (r *Room) SaveData(username string) (domain.SaveData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return domain.SaveData{}, err
	}
	return domain.SaveData{Scores: r.scoresSnapshot()}, nil
}

// Hosts returns the current host usernames in join order.
func (r *Room) Hosts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostList()
}

// Scores returns a copy of every member's persistent score.
func (r *Room) Scores() map[string]domain.Score {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scoresSnapshot()
}

func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *Room) member(username string) (*User, error) {
	if r.closed {
		return nil, domain.ErrRoomClosed
	}
	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *Room) host(username string) (*User, error) {
	user, err := r.member(username)
	if err != nil {
		return nil, err
	}
	if !user.host {
		return nil, domain.ErrNotHost
	}
	return user, nil
}

func (r *Room) members() []*User {
	return lo.Map(r.order, func(username string, _ int) *User { return r.users[username] })
}

func (r *Room) hostList() []string {
	return lo.Filter(r.order, func(username string, _ int) bool { return r.users[username].host })
}

func (r *Room) urls() map[string]string {
	urls := make(map[string]string, len(r.users))
	for username, user := range r.users {
		urls[username] = user.url
	}
	return urls
}

func (r *Room) scoresSnapshot() map[string]domain.Score {
	scores := make(map[string]domain.Score, len(r.users))
	for username, user := range r.users {
		scores[username] = user.score
	}
	return scores
}

func (r *Room) broadcastHosts() {
	r.broadcast(domain.HostsUpdate{Hosts: r.hostList()})
}

// broadcast enriches msg once and queues it on every member's mailbox in
// join order. Enrichers depend on room state only, so one pass serves all.
func (r *Room) broadcast(msg domain.Outbound) {
	msg = r.enrich(msg)
	for _, user := range r.members() {
		r.deliver(user, msg)
	}
}

func (r *Room) sendTo(user *User, msg domain.Outbound) {
	r.deliver(user, r.enrich(msg))
}

func (r *Room) sendToHosts(msg domain.Outbound) {
	msg = r.enrich(msg)
	for _, user := range r.members() {
		if user.host {
			r.deliver(user, msg)
		}
	}
}

func (r *Room) deliver(user *User, msg domain.Outbound) {
	if err := user.mailbox.Put(msg); err != nil {
		r.log.Warn("mailbox rejected message",
			zap.String("username", user.Username),
			zap.String("type", string(msg.OutboundType())),
			zap.Error(err))
	}
}

func (r *Room) emit(kind, username string) {
	r.events.Emit(domain.RoomEvent{
		Type:       kind,
		RoomCode:   r.code,
		Username:   username,
		Users:      len(r.users),
		OccurredAt: time.Now(),
	})
}
