package domain

import "errors"

// Protocol errors. Their text is sent verbatim to the originating connection.
var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrInvalidCode        = errors.New("invalid code")
	ErrUsernameTaken      = errors.New("username taken")
	ErrRoomClosed         = errors.New("room closed")
	ErrNotInRoom          = errors.New("not in a room")
	ErrAlreadyInRoom      = errors.New("already in a room")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotHost            = errors.New("not a host")
	ErrQuizRunning        = errors.New("Quiz still on going")
	ErrNoQuizRunning      = errors.New("no quiz running")
	ErrNoPollData         = errors.New("no poll data")
	ErrPollRunning        = errors.New("poll still on going")
	ErrNoActivePoll       = errors.New("no active poll")
	ErrInvalidVote        = errors.New("invalid vote")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrQueueEntryNotFound = errors.New("quiz not in queue")
)

// Infrastructure errors.
var (
	ErrSaveNotFound   = errors.New("save not found")
	ErrSaveFailed     = errors.New("save failed")
	ErrMailboxClosed  = errors.New("mailbox closed")
	ErrMailboxFull    = errors.New("mailbox full")
	ErrRoomCodesSpent = errors.New("room code space exhausted")
)
