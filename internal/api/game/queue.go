package game

import (
	"slices"

	"go.uber.org/zap"

	"quizroom-service/domain"
)

// AddToQueue appends a quiz to the end of the queue.
func (r *Room) AddToQueue(username string, entry domain.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	r.queue = append(r.queue, entry)
	r.broadcastQueue()
	return nil
}

// ReorderQueue moves the entry with entry's url to index, clamped to the
// queue bounds.
func (r *Room) ReorderQueue(username string, entry domain.QueueEntry, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	from := r.queueIndex(entry.URL)
	if from < 0 {
		return domain.ErrQueueEntryNotFound
	}
	moved := r.queue[from]
	r.queue = slices.Delete(r.queue, from, from+1)
	index = max(0, min(index, len(r.queue)))
	r.queue = slices.Insert(r.queue, index, moved)
	r.broadcastQueue()
	return nil
}

// RemoveFromQueue drops the first entry with entry's url.
func (r *Room) RemoveFromQueue(username string, entry domain.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	at := r.queueIndex(entry.URL)
	if at < 0 {
		return domain.ErrQueueEntryNotFound
	}
	r.queue = slices.Delete(r.queue, at, at+1)
	r.broadcastQueue()
	return nil
}

// ChangeQueueInterval sets or clears the auto-advance interval. Clearing it
// while a countdown is pending cancels that countdown.
func (r *Room) ChangeQueueInterval(username string, interval *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	if interval != nil {
		v := *interval
		interval = &v
	}
	r.queueInterval = interval

	if interval == nil && r.countdown != nil {
		r.cancelCountdown()
		return nil
	}
	r.broadcastQueue()
	return nil
}

// Queue returns a copy of the queue state.
func (r *Room) Queue() domain.QueueState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queueState()
}

// CountdownPending reports whether an auto-advance countdown is running.
func (r *Room) CountdownPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countdown != nil
}

func (r *Room) queueIndex(url string) int {
	return slices.IndexFunc(r.queue, func(e domain.QueueEntry) bool { return e.URL == url })
}

func (r *Room) queueState() domain.QueueState {
	state := domain.QueueState{Queue: slices.Clone(r.queue)}
	if state.Queue == nil {
		state.Queue = []domain.QueueEntry{}
	}
	if r.queueInterval != nil {
		v := *r.queueInterval
		state.QueueInterval = &v
	}
	return state
}

func (r *Room) broadcastQueue() {
	r.broadcast(domain.QueueUpdate{QueueState: r.queueState()})
}

// startCountdown announces the auto-advance and schedules it. The pending
// timer is the cancellation handle; a generation guards against a timer
// that fires after it was superseded.
func (r *Room) startCountdown() {
	length := *r.queueInterval
	r.cancelCountdownTimer()
	r.countdownGen++
	gen := r.countdownGen

	r.log.Info("queue countdown started", zap.Float64("seconds", length))
	r.broadcast(domain.StartChangeQuizCountdown{CountdownLength: length})
	r.countdown = r.scheduler.AfterFunc(seconds(length), func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.expireCountdown(gen)
	})
}

func (r *Room) expireCountdown(gen uint64) {
	if r.closed || r.countdown == nil || gen != r.countdownGen {
		return
	}
	if r.queueInterval == nil {
		r.cancelCountdown()
		return
	}
	r.countdown = nil
	if len(r.queue) == 0 {
		return
	}
	r.broadcast(domain.ChangeQuizNotice{URL: r.queue[0].URL})
}

func (r *Room) cancelCountdown() {
	r.cancelCountdownTimer()
	r.log.Info("queue countdown cancelled")
	r.broadcast(domain.CancelChangeQuizCountdown{})
	r.broadcastQueue()
}

func (r *Room) cancelCountdownTimer() {
	if r.countdown == nil {
		return
	}
	r.countdown.Stop()
	r.countdown = nil
	r.countdownGen++
}
