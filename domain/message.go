package domain

// MessageType is the "type" discriminator carried by every wire message.
type MessageType string

const (
	MsgCreateRoom          MessageType = "create_room"
	MsgCloseRoom           MessageType = "close_room"
	MsgJoinRoom            MessageType = "join_room"
	MsgLeaveRoom           MessageType = "leave_room"
	MsgHostPromotion       MessageType = "host_promotion"
	MsgChangeHost          MessageType = "change_host"
	MsgURLUpdate           MessageType = "url_update"
	MsgStartQuiz           MessageType = "start_quiz"
	MsgStartCountdown      MessageType = "start_countdown"
	MsgLiveScoresUpdate    MessageType = "live_scores_update"
	MsgPageDisconnect      MessageType = "page_disconnect"
	MsgChangeQuiz          MessageType = "change_quiz"
	MsgSuggestQuiz         MessageType = "suggest_quiz"
	MsgPollCreate          MessageType = "poll_create"
	MsgPollDataUpdate      MessageType = "poll_data_update"
	MsgPollStart           MessageType = "poll_start"
	MsgPollVote            MessageType = "poll_vote"
	MsgAddToQueue          MessageType = "add_to_queue"
	MsgReorderQueue        MessageType = "reorder_queue"
	MsgRemoveFromQueue     MessageType = "remove_from_queue"
	MsgChangeQueueInterval MessageType = "change_queue_interval"
	MsgSaveRoom            MessageType = "save_room"
	MsgUsersUpdate         MessageType = "users_update"

	MsgNewRoomCode               MessageType = "new_room_code"
	MsgScoresUpdate              MessageType = "scores_update"
	MsgRoomClosed                MessageType = "room_closed"
	MsgRemovedFromRoom           MessageType = "removed_from_room"
	MsgHostsUpdate               MessageType = "hosts_update"
	MsgQuizFinished              MessageType = "quiz_finished"
	MsgError                     MessageType = "error"
	MsgQueueUpdate               MessageType = "queue_update"
	MsgStartChangeQuizCountdown  MessageType = "start_change_quiz_countdown"
	MsgCancelChangeQuizCountdown MessageType = "cancel_change_quiz_countdown"
	MsgVoteUpdate                MessageType = "vote_update"
)
