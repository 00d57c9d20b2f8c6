package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Score is a user's persistent standing inside a room.
type Score struct {
	Points int `json:"score"`
	Wins   int `json:"wins"`
}

// LiveScore is a user's progress in the quiz currently being played.
type LiveScore struct {
	Score    int     `json:"score"`
	Finished bool    `json:"finished"`
	QuizTime float64 `json:"quiz_time"`
}

// QueueEntry is a queued quiz. Anything besides the url is kept as opaque
// metadata and echoed back to clients unchanged.
type QueueEntry struct {
	URL  string         `json:"url" validate:"required"`
	Meta map[string]any `json:"-"`
}

func (e QueueEntry) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		fields[k] = v
	}
	fields["url"] = e.URL
	return json.Marshal(fields)
}

func (e *QueueEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	e.URL, _ = fields["url"].(string)
	delete(fields, "url")
	e.Meta = nil
	if len(fields) > 0 {
		e.Meta = fields
	}
	return nil
}

// QueueState is the full quiz queue as broadcast to clients.
type QueueState struct {
	Queue         []QueueEntry `json:"queue"`
	QueueInterval *float64     `json:"queue_interval"`
}

// PollData is a poll staged by a host before voting opens.
type PollData struct {
	Entries  []string `json:"entries" validate:"required,min=1"`
	Duration float64  `json:"duration" validate:"gt=0,lte=86400"`
}

func (p PollData) Clone() PollData {
	p.Entries = slices.Clone(p.Entries)
	return p
}

// Poll is the poll definition frozen into a running vote.
type Poll struct {
	Entries   []string `json:"entries"`
	StartTime int64    `json:"start_time"`
	Duration  float64  `json:"duration"`
}

// VoteData is the live state of a running vote.
type VoteData struct {
	StartTime     int64   `json:"start_time"`
	Duration      float64 `json:"duration"`
	Poll          Poll    `json:"poll"`
	ResponseCount int     `json:"response_count"`
	NumVoters     int     `json:"num_voters"`
	Votes         []int   `json:"votes"`
	Finished      bool    `json:"finished"`
	Winner        *string `json:"winner"`
}

func (v VoteData) Clone() VoteData {
	v.Poll.Entries = slices.Clone(v.Poll.Entries)
	v.Votes = slices.Clone(v.Votes)
	if v.Winner != nil {
		winner := *v.Winner
		v.Winner = &winner
	}
	return v
}

// SaveData is the persisted form of a room: enough to restore scores when
// the same usernames come back in a new room.
type SaveData struct {
	SaveID string           `json:"save_id,omitempty"`
	Scores map[string]Score `json:"scores"`
}

func (s SaveData) Clone() SaveData {
	s.Scores = maps.Clone(s.Scores)
	return s
}

// RoomEvent is a room lifecycle fact published to external sinks.
type RoomEvent struct {
	Type       string         `json:"type"`
	RoomCode   string         `json:"room_code"`
	Username   string         `json:"username,omitempty"`
	Ranking    []string       `json:"ranking,omitempty"`
	Points     map[string]int `json:"points,omitempty"`
	Users      int            `json:"users"`
	OccurredAt time.Time      `json:"occurred_at"`
}

const (
	EventRoomCreated  = "room_created"
	EventUserJoined   = "user_joined"
	EventUserLeft     = "user_left"
	EventQuizFinished = "quiz_finished"
	EventRoomDeleted  = "room_deleted"
)
