package game

import (
	"go.uber.org/zap"

	"quizroom-service/domain"
)

type voteState struct {
	gen    uint64
	data   domain.VoteData
	voters map[string]bool
	timer  Timer
}

// StagePoll stores a host's poll definition and shares it with the other
// hosts. kind is the message type the poll arrived with.
func (r *Room) StagePoll(username string, kind domain.MessageType, poll domain.PollData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	staged := poll.Clone()
	r.pollData = &staged
	r.sendToHosts(domain.PollDataForward{Kind: kind, PollData: staged.Clone()})
	return nil
}

// StartPoll opens voting on the staged poll and schedules its timeout.
func (r *Room) StartPoll(username string, startTime int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.host(username); err != nil {
		return err
	}
	if r.vote != nil {
		return domain.ErrPollRunning
	}
	if r.pollData == nil {
		return domain.ErrNoPollData
	}

	poll := *r.pollData
	r.pollData = nil
	r.voteGen++
	gen := r.voteGen
	r.vote = &voteState{
		gen: gen,
		data: domain.VoteData{
			StartTime: startTime,
			Duration:  poll.Duration,
			Poll: domain.Poll{
				Entries:   poll.Entries,
				StartTime: startTime,
				Duration:  poll.Duration,
			},
			NumVoters: len(r.users),
			Votes:     make([]int, len(poll.Entries)),
		},
		voters: make(map[string]bool, len(r.users)),
	}
	r.log.Info("poll started", zap.Int("entries", len(poll.Entries)), zap.Float64("duration", poll.Duration))
	r.broadcast(domain.PollStarted{VoteData: r.vote.data.Clone()})

	r.vote.timer = r.scheduler.AfterFunc(seconds(poll.Duration), func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.finishVote(gen)
	})
	return nil
}

// Vote adds a member's vote vector. The vote finishes as soon as every
// member counted at poll start has responded.
func (r *Room) Vote(username string, votes []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.member(username); err != nil {
		return err
	}
	if r.vote == nil {
		return domain.ErrNoActivePoll
	}
	if len(votes) != len(r.vote.data.Votes) {
		return domain.ErrInvalidVote
	}
	if r.vote.voters[username] {
		return domain.ErrAlreadyVoted
	}

	r.vote.voters[username] = true
	r.vote.data.ResponseCount++
	for i, v := range votes {
		r.vote.data.Votes[i] += v
	}

	if r.vote.data.ResponseCount >= r.vote.data.NumVoters {
		r.finishVote(r.vote.gen)
		return nil
	}
	r.broadcast(domain.VoteUpdate{VoteData: r.vote.data.Clone()})
	return nil
}

// VoteData returns a copy of the running vote, if any.
func (r *Room) VoteData() (domain.VoteData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vote == nil {
		return domain.VoteData{}, false
	}
	return r.vote.data.Clone(), true
}

// finishVote is the only way a vote ends. Both the quorum path and the
// timeout land here; whichever comes second finds no matching vote and
// does nothing.
func (r *Room) finishVote(gen uint64) {
	if r.closed || r.vote == nil || r.vote.gen != gen {
		return
	}
	vote := r.vote
	r.vote = nil
	if vote.timer != nil {
		vote.timer.Stop()
	}

	vote.data.Finished = true
	if winner, ok := pollWinner(vote.data.Poll.Entries, vote.data.Votes); ok {
		vote.data.Winner = &winner
	}
	r.log.Info("poll finished",
		zap.Int("responses", vote.data.ResponseCount),
		zap.Stringp("winner", vote.data.Winner))
	r.broadcast(domain.VoteUpdate{VoteData: vote.data})
}

// pollWinner picks the entry with the most votes; the earliest entry wins ties.
func pollWinner(entries []string, votes []int) (string, bool) {
	if len(entries) == 0 || len(votes) != len(entries) {
		return "", false
	}
	best := 0
	for i, count := range votes {
		if count > votes[best] {
			best = i
		}
	}
	return entries[best], true
}
