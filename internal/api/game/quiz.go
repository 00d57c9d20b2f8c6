package game

import (
	"maps"
	"time"

	"go.uber.org/zap"

	"quizroom-service/domain"
)

// running reports whether a quiz is in progress: live scores exist from
// start_quiz until every one of them is finished and scored.
func (r *Room) running() bool {
	return len(r.liveScores) > 0
}

// StartCountdown tells every member to begin the pre-quiz countdown.
func (r *Room) StartCountdown(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	if r.running() {
		return domain.ErrQuizRunning
	}
	r.broadcast(domain.StartCountdownNotice{})
	return nil
}

// StartQuiz gives every member a fresh live score. When the quiz being
// started is the head of the queue, it is popped.
func (r *Room) StartQuiz(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.host(username)
	if err != nil {
		return err
	}
	if r.running() {
		return domain.ErrQuizRunning
	}

	// an auto-advance still pending is moot once a quiz starts
	r.cancelCountdownTimer()

	for username := range r.users {
		r.liveScores[username] = &domain.LiveScore{}
	}
	r.log.Info("quiz started", zap.String("url", user.url), zap.Int("players", len(r.liveScores)))
	r.broadcast(domain.StartQuizNotice{})

	if len(r.queue) > 0 && r.queue[0].URL == user.url {
		r.queue = r.queue[1:]
		r.broadcast(domain.QueueUpdate{QueueState: r.queueState()})
	}
	return nil
}

// UpdateLiveScore records a member's progress. A finished report keeps any
// previously reported score or time it does not override.
func (r *Room) UpdateLiveScore(username string, update domain.LiveScoresUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	if !r.running() {
		return domain.ErrNoQuizRunning
	}

	// members who joined after start_quiz are not part of this quiz
	live, ok := r.liveScores[username]
	if !ok {
		return nil
	}
	if update.CurrentScore != nil {
		live.Score = *update.CurrentScore
	}
	if update.QuizTime != nil {
		live.QuizTime = *update.QuizTime
	}
	live.Finished = update.Finished

	r.broadcastLiveScores()
	if update.Finished {
		r.completeIfFinished()
	}
	return nil
}

// PageDisconnect marks the member's live score finished, if they have one.
func (r *Room) PageDisconnect(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	if _, ok := r.liveScores[username]; ok {
		r.finishLiveScore(username)
	}
	return nil
}

// LiveScores returns a copy of the live-scores view.
func (r *Room) LiveScores() map[string]domain.LiveScore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liveScoresSnapshot()
}

func (r *Room) finishLiveScore(username string) {
	r.liveScores[username].Finished = true
	r.broadcastLiveScores()
	r.completeIfFinished()
}

func (r *Room) broadcastLiveScores() {
	r.broadcast(domain.LiveScoresSnapshot{LiveScores: r.liveScoresSnapshot()})
}

func (r *Room) liveScoresSnapshot() map[string]domain.LiveScore {
	snapshot := make(map[string]domain.LiveScore, len(r.liveScores))
	for username, live := range r.liveScores {
		snapshot[username] = *live
	}
	return snapshot
}

func (r *Room) completeIfFinished() {
	if !r.running() {
		return
	}
	for _, live := range r.liveScores {
		if !live.Finished {
			return
		}
	}
	r.complete()
}

// complete scores the finished quiz, resets to idle and, when the queue has
// something next and an interval is set, starts the auto-advance countdown.
func (r *Room) complete() {
	r.broadcast(domain.QuizFinished{})

	results := make([]QuizResult, 0, len(r.liveScores))
	for username, live := range r.liveScores {
		results = append(results, QuizResult{Username: username, Score: live.Score, QuizTime: live.QuizTime})
	}
	ranking := RankResults(results)
	points := AllocatePoints(ranking)

	// users who left mid-quiz are ranked but not credited
	if winner, ok := r.users[ranking[0]]; ok {
		winner.score.Wins++
	}
	for username, awarded := range points {
		if user, ok := r.users[username]; ok {
			user.score.Points += awarded
		}
	}
	r.broadcast(domain.ScoresUpdate{Scores: r.scoresSnapshot()})

	r.log.Info("quiz finished", zap.String("winner", ranking[0]), zap.Int("players", len(ranking)))
	r.events.Emit(domain.RoomEvent{
		Type:       domain.EventQuizFinished,
		RoomCode:   r.code,
		Ranking:    ranking,
		Points:     maps.Clone(points),
		Users:      len(r.users),
		OccurredAt: time.Now(),
	})

	clear(r.liveScores)

	if len(r.queue) > 0 && r.queueInterval != nil {
		r.startCountdown()
	}
}
