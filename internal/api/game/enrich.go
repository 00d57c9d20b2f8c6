package game

import "quizroom-service/domain"

// Enricher is one outbound pipeline step. It runs under the room lock right
// before a message is queued and may return msg with fields injected from
// room state. Steps ignore message types they do not handle.
type Enricher func(r *Room, msg domain.Outbound) domain.Outbound

// Pipeline builds the default outbound pipeline. With queueEnabled false the
// queue fields are left out of join and promotion messages.
func Pipeline(queueEnabled bool) []Enricher {
	steps := []Enricher{
		withJoinHosts,
		withPromotionState,
		withUsersScores,
		withSaveScores,
	}
	if queueEnabled {
		steps = append(steps, withQueueState)
	}
	return steps
}

func (r *Room) enrich(msg domain.Outbound) domain.Outbound {
	for _, step := range r.enrichers {
		msg = step(r, msg)
	}
	return msg
}

func withJoinHosts(r *Room, msg domain.Outbound) domain.Outbound {
	if m, ok := msg.(domain.JoinRoomReply); ok && m.Success {
		m.Hosts = r.hostList()
		return m
	}
	return msg
}

func withPromotionState(r *Room, msg domain.Outbound) domain.Outbound {
	m, ok := msg.(domain.HostPromotionNotice)
	if !ok {
		return msg
	}
	m.URLs = r.urls()
	if r.pollData != nil {
		poll := r.pollData.Clone()
		m.PollData = &poll
	}
	return m
}

func withQueueState(r *Room, msg domain.Outbound) domain.Outbound {
	switch m := msg.(type) {
	case domain.JoinRoomReply:
		if m.Success {
			state := r.queueState()
			m.QueueState = &state
		}
		return m
	case domain.HostPromotionNotice:
		state := r.queueState()
		m.QueueState = &state
		return m
	}
	return msg
}

func withUsersScores(r *Room, msg domain.Outbound) domain.Outbound {
	if m, ok := msg.(domain.UsersUpdateReply); ok {
		m.Scores = r.scoresSnapshot()
		return m
	}
	return msg
}

func withSaveScores(r *Room, msg domain.Outbound) domain.Outbound {
	if m, ok := msg.(domain.SaveRoomReply); ok {
		m.SaveData.Scores = r.scoresSnapshot()
		return m
	}
	return msg
}
