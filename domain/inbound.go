package domain

import "encoding/json"

// Inbound is a decoded client message. Each concrete type corresponds to
// exactly one MessageType.
type Inbound interface {
	InboundType() MessageType
}

type CreateRoom struct {
	Username string    `json:"username" validate:"required"`
	URL      string    `json:"url"`
	SaveData *SaveData `json:"save_data"`
	SaveID   string    `json:"save_id"`
}

type CloseRoom struct{}

type JoinRoom struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required"`
	URL      string `json:"url"`
}

type LeaveRoom struct{}

type HostPromotion struct {
	Username string `json:"username" validate:"required"`
}

type ChangeHost struct {
	Username string `json:"username" validate:"required"`
}

type URLUpdate struct {
	URL string `json:"url"`
}

type StartQuiz struct{}

type StartCountdown struct{}

// LiveScoresUpdate reports quiz progress. Nil score or time leave the
// previously reported values in place.
type LiveScoresUpdate struct {
	CurrentScore *int     `json:"current_score"`
	Finished     bool     `json:"finished"`
	QuizTime     *float64 `json:"quiz_time"`
}

type PageDisconnect struct{}

type ChangeQuiz struct {
	URL string `json:"url" validate:"required"`
}

// SuggestQuiz carries a url plus whatever descriptive fields the client
// attached; all of them are forwarded to hosts.
type SuggestQuiz struct {
	URL    string         `json:"url" validate:"required"`
	Fields map[string]any `json:"-"`
}

func (s *SuggestQuiz) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	s.URL, _ = fields["url"].(string)
	delete(fields, "url")
	delete(fields, "type")
	delete(fields, "username")
	s.Fields = fields
	return nil
}

type PollCreate struct {
	PollData PollData `json:"poll_data"`
}

type PollDataUpdate struct {
	PollData PollData `json:"poll_data"`
}

type PollStart struct {
	StartTime int64 `json:"start_time"`
}

type PollVote struct {
	Votes []int `json:"votes" validate:"required,dive,min=0"`
}

type AddToQueue struct {
	Quiz QueueEntry `json:"quiz"`
}

type ReorderQueue struct {
	Quiz  QueueEntry `json:"quiz"`
	Index int        `json:"index" validate:"min=0"`
}

type RemoveFromQueue struct {
	Quiz QueueEntry `json:"quiz"`
}

type ChangeQueueInterval struct {
	QueueInterval *float64 `json:"queue_interval" validate:"omitempty,gt=0,lte=86400"`
}

type SaveRoom struct{}

type UsersUpdate struct{}

// UnknownMessage is produced for any type the server does not recognise.
type UnknownMessage struct {
	Type MessageType
}

func (CreateRoom) InboundType() MessageType          { return MsgCreateRoom }
func (CloseRoom) InboundType() MessageType           { return MsgCloseRoom }
func (JoinRoom) InboundType() MessageType            { return MsgJoinRoom }
func (LeaveRoom) InboundType() MessageType           { return MsgLeaveRoom }
func (HostPromotion) InboundType() MessageType       { return MsgHostPromotion }
func (ChangeHost) InboundType() MessageType          { return MsgChangeHost }
func (URLUpdate) InboundType() MessageType           { return MsgURLUpdate }
func (StartQuiz) InboundType() MessageType           { return MsgStartQuiz }
func (StartCountdown) InboundType() MessageType      { return MsgStartCountdown }
func (LiveScoresUpdate) InboundType() MessageType    { return MsgLiveScoresUpdate }
func (PageDisconnect) InboundType() MessageType      { return MsgPageDisconnect }
func (ChangeQuiz) InboundType() MessageType          { return MsgChangeQuiz }
func (SuggestQuiz) InboundType() MessageType         { return MsgSuggestQuiz }
func (PollCreate) InboundType() MessageType          { return MsgPollCreate }
func (PollDataUpdate) InboundType() MessageType      { return MsgPollDataUpdate }
func (PollStart) InboundType() MessageType           { return MsgPollStart }
func (PollVote) InboundType() MessageType            { return MsgPollVote }
func (AddToQueue) InboundType() MessageType          { return MsgAddToQueue }
func (ReorderQueue) InboundType() MessageType        { return MsgReorderQueue }
func (RemoveFromQueue) InboundType() MessageType     { return MsgRemoveFromQueue }
func (ChangeQueueInterval) InboundType() MessageType { return MsgChangeQueueInterval }
func (SaveRoom) InboundType() MessageType            { return MsgSaveRoom }
func (UsersUpdate) InboundType() MessageType         { return MsgUsersUpdate }
func (m UnknownMessage) InboundType() MessageType    { return m.Type }
