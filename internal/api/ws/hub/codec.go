package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"quizroom-service/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var inboundFactories = map[domain.MessageType]func() domain.Inbound{
	domain.MsgCreateRoom:          func() domain.Inbound { return &domain.CreateRoom{} },
	domain.MsgCloseRoom:           func() domain.Inbound { return &domain.CloseRoom{} },
	domain.MsgJoinRoom:            func() domain.Inbound { return &domain.JoinRoom{} },
	domain.MsgLeaveRoom:           func() domain.Inbound { return &domain.LeaveRoom{} },
	domain.MsgHostPromotion:       func() domain.Inbound { return &domain.HostPromotion{} },
	domain.MsgChangeHost:          func() domain.Inbound { return &domain.ChangeHost{} },
	domain.MsgURLUpdate:           func() domain.Inbound { return &domain.URLUpdate{} },
	domain.MsgStartQuiz:           func() domain.Inbound { return &domain.StartQuiz{} },
	domain.MsgStartCountdown:      func() domain.Inbound { return &domain.StartCountdown{} },
	domain.MsgLiveScoresUpdate:    func() domain.Inbound { return &domain.LiveScoresUpdate{} },
	domain.MsgPageDisconnect:      func() domain.Inbound { return &domain.PageDisconnect{} },
	domain.MsgChangeQuiz:          func() domain.Inbound { return &domain.ChangeQuiz{} },
	domain.MsgSuggestQuiz:         func() domain.Inbound { return &domain.SuggestQuiz{} },
	domain.MsgPollCreate:          func() domain.Inbound { return &domain.PollCreate{} },
	domain.MsgPollDataUpdate:      func() domain.Inbound { return &domain.PollDataUpdate{} },
	domain.MsgPollStart:           func() domain.Inbound { return &domain.PollStart{} },
	domain.MsgPollVote:            func() domain.Inbound { return &domain.PollVote{} },
	domain.MsgAddToQueue:          func() domain.Inbound { return &domain.AddToQueue{} },
	domain.MsgReorderQueue:        func() domain.Inbound { return &domain.ReorderQueue{} },
	domain.MsgRemoveFromQueue:     func() domain.Inbound { return &domain.RemoveFromQueue{} },
	domain.MsgChangeQueueInterval: func() domain.Inbound { return &domain.ChangeQueueInterval{} },
	domain.MsgSaveRoom:            func() domain.Inbound { return &domain.SaveRoom{} },
	domain.MsgUsersUpdate:         func() domain.Inbound { return &domain.UsersUpdate{} },
}

// DecodeInbound turns one frame into a typed message. Types the server does
// not know decode to *domain.UnknownMessage so the pipeline can reject them.
func DecodeInbound(payload []byte) (domain.Inbound, error) {
	var envelope struct {
		Type domain.MessageType `json:"type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, domain.ErrInvalidMessage
	}

	factory, ok := inboundFactories[envelope.Type]
	if !ok {
		return &domain.UnknownMessage{Type: envelope.Type}, nil
	}
	msg := factory()
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, domain.ErrInvalidMessage
	}
	if err := validate.Struct(msg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:])
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidMessage, strings.Join(fields, ", "))
		}
		return nil, domain.ErrInvalidMessage
	}
	return msg, nil
}
