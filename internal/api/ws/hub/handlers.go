package hub

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizroom-service/domain"
)

// InboundHandler reacts to one decoded message. ok is false when the handler
// does not apply to the message type; several handlers may apply to one type.
type InboundHandler func(s *Session, msg domain.Inbound) (ok bool, err error)

// on adapts a typed handler into an InboundHandler that ignores every other
// message type.
func on[T domain.Inbound](fn func(s *Session, msg T) error) InboundHandler {
	return func(s *Session, msg domain.Inbound) (bool, error) {
		typed, ok := msg.(T)
		if !ok {
			return false, nil
		}
		return true, fn(s, typed)
	}
}

// inRoom adapts a handler that needs the session to be a room member.
func inRoom[T domain.Inbound](fn func(s *Session, msg T) error) InboundHandler {
	return on(func(s *Session, msg T) error {
		if _, err := s.currentRoom(); err != nil {
			return err
		}
		return fn(s, msg)
	})
}

const storeTimeout = 5 * time.Second

// DefaultHandlers is the inbound pipeline, in the order handlers run.
func DefaultHandlers() []InboundHandler {
	return []InboundHandler{
		on(handleCreateRoom),
		on(handleJoinRoom),
		inRoom(handleLeaveRoom),
		inRoom(handleCloseRoom),
		inRoom(handleHostPromotion),
		inRoom(handleChangeHost),
		inRoom(handleURLUpdate),
		inRoom(handleStartCountdown),
		inRoom(handleStartQuiz),
		inRoom(handleLiveScoresUpdate),
		on(handlePageDisconnect),
		inRoom(handleChangeQuiz),
		inRoom(handleSuggestQuiz),
		inRoom(handlePollCreate),
		inRoom(handlePollDataUpdate),
		inRoom(handlePollStart),
		inRoom(handlePollVote),
		inRoom(handleAddToQueue),
		inRoom(handleReorderQueue),
		inRoom(handleRemoveFromQueue),
		inRoom(handleChangeQueueInterval),
		inRoom(handleSaveRoom),
		inRoom(handleUsersUpdate),
	}
}

func handleCreateRoom(s *Session, msg *domain.CreateRoom) error {
	if _, err := s.currentRoom(); err == nil {
		return domain.ErrAlreadyInRoom
	}

	save := msg.SaveData
	if save == nil && msg.SaveID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		loaded, err := s.hub.saves.Load(ctx, msg.SaveID)
		if err != nil {
			if !errors.Is(err, domain.ErrSaveNotFound) {
				s.log.Error("failed to load save data", zap.String("save_id", msg.SaveID), zap.Error(err))
			}
			return domain.ErrSaveNotFound
		}
		save = &loaded
	}

	room := s.hub.rooms.CreateRoom(msg.Username, s.mailbox, msg.URL, save)
	s.enter(room, msg.Username, msg.URL)
	return nil
}

func handleJoinRoom(s *Session, msg *domain.JoinRoom) error {
	if _, err := s.currentRoom(); err == nil {
		return domain.ErrAlreadyInRoom
	}
	room, err := s.hub.rooms.JoinRoom(msg.Code, msg.Username, s.mailbox, msg.URL)
	if err != nil {
		// lookup failures are answered as a failed join, not as an error
		s.reply(domain.JoinRoomReply{Success: false, FailReason: err.Error()})
		return nil
	}
	s.enter(room, msg.Username, msg.URL)
	return nil
}

func handleLeaveRoom(s *Session, _ *domain.LeaveRoom) error {
	s.leave()
	return errTerminate
}

func handleCloseRoom(s *Session, _ *domain.CloseRoom) error {
	s.hub.rooms.CloseRoom(s.room.Code())
	return errTerminate
}

func handleHostPromotion(s *Session, msg *domain.HostPromotion) error {
	return s.room.Promote(msg.Username)
}

func handleChangeHost(s *Session, msg *domain.ChangeHost) error {
	return s.room.ChangeHost(s.username, msg.Username)
}

func handleURLUpdate(s *Session, msg *domain.URLUpdate) error {
	if err := s.room.UpdateURL(s.username, msg.URL); err != nil {
		return err
	}
	s.url = msg.URL
	return nil
}

func handleStartCountdown(s *Session, _ *domain.StartCountdown) error {
	return s.room.StartCountdown(s.username)
}

func handleStartQuiz(s *Session, _ *domain.StartQuiz) error {
	return s.room.StartQuiz(s.username)
}

func handleLiveScoresUpdate(s *Session, msg *domain.LiveScoresUpdate) error {
	return s.room.UpdateLiveScore(s.username, *msg)
}

// page_disconnect outside a room or a quiz is a no-op.
func handlePageDisconnect(s *Session, _ *domain.PageDisconnect) error {
	if _, err := s.currentRoom(); err != nil {
		return nil
	}
	return s.room.PageDisconnect(s.username)
}

func handleChangeQuiz(s *Session, msg *domain.ChangeQuiz) error {
	return s.room.ChangeQuiz(s.username, msg.URL)
}

func handleSuggestQuiz(s *Session, msg *domain.SuggestQuiz) error {
	return s.room.SuggestQuiz(s.username, *msg)
}

func handlePollCreate(s *Session, msg *domain.PollCreate) error {
	return s.room.StagePoll(s.username, domain.MsgPollCreate, msg.PollData)
}

func handlePollDataUpdate(s *Session, msg *domain.PollDataUpdate) error {
	return s.room.StagePoll(s.username, domain.MsgPollDataUpdate, msg.PollData)
}

func handlePollStart(s *Session, msg *domain.PollStart) error {
	return s.room.StartPoll(s.username, msg.StartTime)
}

func handlePollVote(s *Session, msg *domain.PollVote) error {
	return s.room.Vote(s.username, msg.Votes)
}

func handleAddToQueue(s *Session, msg *domain.AddToQueue) error {
	return s.room.AddToQueue(s.username, msg.Quiz)
}

func handleReorderQueue(s *Session, msg *domain.ReorderQueue) error {
	return s.room.ReorderQueue(s.username, msg.Quiz, msg.Index)
}

func handleRemoveFromQueue(s *Session, msg *domain.RemoveFromQueue) error {
	return s.room.RemoveFromQueue(s.username, msg.Quiz)
}

func handleChangeQueueInterval(s *Session, msg *domain.ChangeQueueInterval) error {
	return s.room.ChangeQueueInterval(s.username, msg.QueueInterval)
}

// handleSaveRoom persists the room's scores under a new id and returns the
// id to the requester. The scores in the reply are filled in on the way out.
func handleSaveRoom(s *Session, _ *domain.SaveRoom) error {
	data, err := s.room.SaveData(s.username)
	if err != nil {
		return err
	}
	data.SaveID = uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.hub.saves.Save(ctx, data); err != nil {
		s.log.Error("failed to save room", zap.String("save_id", data.SaveID), zap.Error(err))
		return domain.ErrSaveFailed
	}
	s.log.Info("room saved", zap.String("save_id", data.SaveID))
	return s.room.SendTo(s.username, domain.SaveRoomReply{SaveData: domain.SaveData{SaveID: data.SaveID}})
}

func handleUsersUpdate(s *Session, _ *domain.UsersUpdate) error {
	return s.room.SendTo(s.username, domain.UsersUpdateReply{})
}
