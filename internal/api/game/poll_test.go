package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quizroom-service/domain"
)

var twoWayPoll = domain.PollData{Entries: []string{"A", "B"}, Duration: 30}

func startPoll(t *testing.T, room *Room) {
	t.Helper()
	require.NoError(t, room.StagePoll("alice", domain.MsgPollCreate, twoWayPoll))
	require.NoError(t, room.StartPoll("alice", 1000))
}

func TestStagePoll_ForwardsToHosts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	require.ErrorIs(t, room.StagePoll("bob", domain.MsgPollCreate, twoWayPoll), domain.ErrNotHost)
	require.NoError(t, room.StagePoll("alice", domain.MsgPollDataUpdate, twoWayPoll))

	msgs := drain(boxes["alice"])
	require.Len(t, msgs, 1)
	require.Equal(t, domain.MsgPollDataUpdate, msgs[0].OutboundType())
	require.Equal(t, twoWayPoll, msgs[0].(domain.PollDataForward).PollData)
	require.Empty(t, drain(boxes["bob"]))
}

func TestStagePoll_ReachesNewHosts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")
	require.NoError(t, room.StagePoll("alice", domain.MsgPollCreate, twoWayPoll))

	require.NoError(t, room.Promote("bob"))

	promotion := last[domain.HostPromotionNotice](t, drain(boxes["bob"]))
	require.NotNil(t, promotion.PollData)
	require.Equal(t, twoWayPoll, *promotion.PollData)
}

func TestStartPoll_Preconditions(t *testing.T) {
	f := newFixture(t)
	room, _ := f.room(t, "alice", "bob")

	require.ErrorIs(t, room.StartPoll("alice", 1), domain.ErrNoPollData)
	require.ErrorIs(t, room.StartPoll("bob", 1), domain.ErrNotHost)

	startPoll(t, room)
	require.NoError(t, room.StagePoll("alice", domain.MsgPollCreate, twoWayPoll))
	require.ErrorIs(t, room.StartPoll("alice", 2), domain.ErrPollRunning)
}

func TestStartPoll_BroadcastsAndSchedulesTimeout(t *testing.T) {
	// Given
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	// When
	startPoll(t, room)

	// Then
	started := last[domain.PollStarted](t, drain(boxes["bob"]))
	require.Equal(t, domain.VoteData{
		StartTime: 1000,
		Duration:  30,
		Poll:      domain.Poll{Entries: []string{"A", "B"}, StartTime: 1000, Duration: 30},
		NumVoters: 2,
		Votes:     []int{0, 0},
	}, started.VoteData)
	require.Equal(t, []time.Duration{30 * time.Second}, f.scheduler.pending())

	// a second start is refused while voting, and the staged poll was consumed
	require.ErrorIs(t, room.StartPoll("alice", 1), domain.ErrPollRunning)
	require.Equal(t, 1, f.scheduler.fire())
	require.ErrorIs(t, room.StartPoll("alice", 1), domain.ErrNoPollData)
}

func TestVote_QuorumFinishesOnce(t *testing.T) {
	// Given
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")
	startPoll(t, room)
	drain(boxes["alice"])

	// When
	require.NoError(t, room.Vote("alice", []int{0, 1}))
	require.NoError(t, room.Vote("bob", []int{0, 1}))

	// Then
	msgs := drain(boxes["alice"])
	require.Equal(t, []domain.MessageType{domain.MsgVoteUpdate, domain.MsgVoteUpdate}, typesOf(msgs))
	final := msgs[1].(domain.VoteUpdate).VoteData
	require.True(t, final.Finished)
	require.Equal(t, []int{0, 2}, final.Votes)
	require.Equal(t, 2, final.ResponseCount)
	require.Equal(t, "B", *final.Winner)

	// the timeout was cancelled and cannot finish the vote again
	require.Zero(t, f.scheduler.fire())
	require.Empty(t, drain(boxes["alice"]))
	_, running := room.VoteData()
	require.False(t, running)
}

func TestVote_TimeoutFinishes(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob", "carol")
	startPoll(t, room)
	require.NoError(t, room.Vote("bob", []int{1, 0}))
	drain(boxes["carol"])

	require.Equal(t, 1, f.scheduler.fire())

	final := last[domain.VoteUpdate](t, drain(boxes["carol"])).VoteData
	require.True(t, final.Finished)
	require.Equal(t, 1, final.ResponseCount)
	require.Equal(t, 3, final.NumVoters)
	require.Equal(t, "A", *final.Winner)
	require.ErrorIs(t, room.Vote("carol", []int{0, 1}), domain.ErrNoActivePoll)
}

func TestVote_TieGoesToFirstEntry(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")
	startPoll(t, room)

	require.NoError(t, room.Vote("alice", []int{0, 1}))
	require.NoError(t, room.Vote("bob", []int{1, 0}))

	final := last[domain.VoteUpdate](t, drain(boxes["bob"])).VoteData
	require.Equal(t, "A", *final.Winner)
}

func TestVote_Rejections(t *testing.T) {
	f := newFixture(t)
	room, _ := f.room(t, "alice", "bob", "carol")

	require.ErrorIs(t, room.Vote("bob", []int{1, 0}), domain.ErrNoActivePoll)

	startPoll(t, room)
	require.ErrorIs(t, room.Vote("bob", []int{1}), domain.ErrInvalidVote)
	require.NoError(t, room.Vote("bob", []int{1, 0}))
	require.ErrorIs(t, room.Vote("bob", []int{1, 0}), domain.ErrAlreadyVoted)

	data, running := room.VoteData()
	require.True(t, running)
	require.Equal(t, []int{1, 0}, data.Votes)
}

func TestFinishVote_StaleGenerationIsIgnored(t *testing.T) {
	// Given a first vote finished by quorum and a second one running
	f := newFixture(t)
	room, _ := f.room(t, "alice")
	startPoll(t, room)
	require.NoError(t, room.Vote("alice", []int{1, 0}))
	startPoll(t, room)

	// When the first vote's finish arrives late
	room.mu.Lock()
	room.finishVote(1)
	room.mu.Unlock()

	// Then the second vote is untouched
	data, running := room.VoteData()
	require.True(t, running)
	require.False(t, data.Finished)
}

func TestPollWinner(t *testing.T) {
	winner, ok := pollWinner([]string{"a", "b", "c"}, []int{1, 3, 3})
	require.True(t, ok)
	require.Equal(t, "b", winner)

	_, ok = pollWinner(nil, nil)
	require.False(t, ok)
}

func TestClose_StopsVoteTimer(t *testing.T) {
	f := newFixture(t)
	room, _ := f.room(t, "alice", "bob")
	startPoll(t, room)

	room.Close()

	require.Empty(t, f.scheduler.pending())
}
