package domain

import (
	"encoding/json"
	"fmt"
)

// Outbound is a server message. Concrete types hold only their payload; the
// "type" field is added by EncodeOutbound.
type Outbound interface {
	OutboundType() MessageType
}

type NewRoomCode struct {
	RoomCode string `json:"room_code"`
}

type ScoresUpdate struct {
	Scores map[string]Score `json:"scores"`
}

// JoinRoomReply answers join_room. Hosts and the queue state are filled in
// by the outbound pipeline for successful joins.
type JoinRoomReply struct {
	Success    bool     `json:"success"`
	FailReason string   `json:"fail_reason,omitempty"`
	Hosts      []string `json:"hosts,omitempty"`
	*QueueState
}

type RoomClosed struct {
	RoomCode string `json:"room_code"`
}

type RemovedFromRoom struct {
	Username string `json:"username"`
}

type HostsUpdate struct {
	Hosts []string `json:"hosts"`
}

// HostPromotionNotice is sent to a newly promoted host. Everything it
// carries is injected by the outbound pipeline.
type HostPromotionNotice struct {
	URLs     map[string]string `json:"urls"`
	PollData *PollData         `json:"poll_data,omitempty"`
	*QueueState
}

type URLUpdateNotice struct {
	Username string `json:"username"`
	URL      string `json:"url"`
}

type StartQuizNotice struct{}

type StartCountdownNotice struct{}

type LiveScoresSnapshot struct {
	LiveScores map[string]LiveScore `json:"live_scores"`
}

type QuizFinished struct{}

type ChangeQuizNotice struct {
	URL string `json:"url"`
}

type ErrorMessage struct {
	Error string `json:"error"`
}

type QueueUpdate struct {
	QueueState
}

type StartChangeQuizCountdown struct {
	CountdownLength float64 `json:"countdown_length"`
}

type CancelChangeQuizCountdown struct{}

type VoteUpdate struct {
	VoteData VoteData `json:"vote_data"`
}

type PollStarted struct {
	VoteData VoteData `json:"vote_data"`
}

// PollDataForward relays a staged poll to hosts under the type it arrived with.
type PollDataForward struct {
	Kind     MessageType `json:"-"`
	PollData PollData    `json:"poll_data"`
}

// SuggestQuizForward relays a suggestion to hosts with the suggester attached.
type SuggestQuizForward struct {
	Username string
	URL      string
	Fields   map[string]any
}

func (s SuggestQuizForward) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.Fields)+2)
	for k, v := range s.Fields {
		fields[k] = v
	}
	fields["url"] = s.URL
	fields["username"] = s.Username
	return json.Marshal(fields)
}

// UsersUpdateReply is answered to users_update; scores are injected.
type UsersUpdateReply struct {
	Scores map[string]Score `json:"scores"`
}

// SaveRoomReply is answered to save_room; scores are injected.
type SaveRoomReply struct {
	SaveData SaveData `json:"save_data"`
}

func (NewRoomCode) OutboundType() MessageType               { return MsgNewRoomCode }
func (ScoresUpdate) OutboundType() MessageType              { return MsgScoresUpdate }
func (JoinRoomReply) OutboundType() MessageType             { return MsgJoinRoom }
func (RoomClosed) OutboundType() MessageType                { return MsgRoomClosed }
func (RemovedFromRoom) OutboundType() MessageType           { return MsgRemovedFromRoom }
func (HostsUpdate) OutboundType() MessageType               { return MsgHostsUpdate }
func (HostPromotionNotice) OutboundType() MessageType       { return MsgHostPromotion }
func (URLUpdateNotice) OutboundType() MessageType           { return MsgURLUpdate }
func (StartQuizNotice) OutboundType() MessageType           { return MsgStartQuiz }
func (StartCountdownNotice) OutboundType() MessageType      { return MsgStartCountdown }
func (LiveScoresSnapshot) OutboundType() MessageType        { return MsgLiveScoresUpdate }
func (QuizFinished) OutboundType() MessageType              { return MsgQuizFinished }
func (ChangeQuizNotice) OutboundType() MessageType          { return MsgChangeQuiz }
func (ErrorMessage) OutboundType() MessageType              { return MsgError }
func (QueueUpdate) OutboundType() MessageType               { return MsgQueueUpdate }
func (StartChangeQuizCountdown) OutboundType() MessageType  { return MsgStartChangeQuizCountdown }
func (CancelChangeQuizCountdown) OutboundType() MessageType { return MsgCancelChangeQuizCountdown }
func (VoteUpdate) OutboundType() MessageType                { return MsgVoteUpdate }
func (PollStarted) OutboundType() MessageType               { return MsgPollStart }
func (p PollDataForward) OutboundType() MessageType         { return p.Kind }
func (SuggestQuizForward) OutboundType() MessageType        { return MsgSuggestQuiz }
func (UsersUpdateReply) OutboundType() MessageType          { return MsgUsersUpdate }
func (SaveRoomReply) OutboundType() MessageType             { return MsgSaveRoom }

// EncodeOutbound serialises msg as a JSON object with its "type" field first.
func EncodeOutbound(msg Outbound) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", msg.OutboundType(), err)
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%s does not encode to an object", msg.OutboundType())
	}
	kind, err := json.Marshal(msg.OutboundType())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(kind)+9)
	out = append(out, `{"type":`...)
	out = append(out, kind...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}
