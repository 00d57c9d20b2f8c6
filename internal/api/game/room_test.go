package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quizroom-service/domain"
)

func TestLeave_SoleHostPromotesNextMember(t *testing.T) {
	// Given
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob", "carol")

	// When
	room.Leave("alice")

	// Then
	require.Equal(t, []string{"bob"}, room.Hosts())

	bobMsgs := drain(boxes["bob"])
	require.Equal(t, []domain.MessageType{
		domain.MsgScoresUpdate,
		domain.MsgHostPromotion,
		domain.MsgHostsUpdate,
	}, typesOf(bobMsgs))
	promotion := bobMsgs[1].(domain.HostPromotionNotice)
	require.Equal(t, map[string]string{"bob": "url-bob", "carol": "url-carol"}, promotion.URLs)
	require.NotNil(t, promotion.QueueState)
	require.Equal(t, domain.HostsUpdate{Hosts: []string{"bob"}}, bobMsgs[2])

	carolMsgs := drain(boxes["carol"])
	require.Equal(t, []domain.MessageType{domain.MsgScoresUpdate, domain.MsgHostsUpdate}, typesOf(carolMsgs))
}

func TestLeave_NonHostKeepsHosts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	room.Leave("bob")

	require.Equal(t, []string{"alice"}, room.Hosts())
	aliceMsgs := drain(boxes["alice"])
	require.Equal(t, []domain.MessageType{domain.MsgScoresUpdate}, typesOf(aliceMsgs))
	require.Equal(t, map[string]domain.Score{"alice": {}}, aliceMsgs[0].(domain.ScoresUpdate).Scores)
}

func TestLeave_OneOfSeveralHosts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")
	require.NoError(t, room.Promote("bob"))
	drain(boxes["alice"])

	room.Leave("bob")

	require.Equal(t, []string{"alice"}, room.Hosts())
	require.Equal(t, []domain.MessageType{domain.MsgScoresUpdate, domain.MsgHostsUpdate}, typesOf(drain(boxes["alice"])))
}

func TestPromote(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	require.NoError(t, room.Promote("bob"))
	require.ErrorIs(t, room.Promote("nobody"), domain.ErrUserNotFound)

	require.Equal(t, []string{"alice", "bob"}, room.Hosts())
	bobMsgs := drain(boxes["bob"])
	require.Equal(t, []domain.MessageType{domain.MsgHostPromotion, domain.MsgHostsUpdate}, typesOf(bobMsgs))
	require.Equal(t, domain.HostsUpdate{Hosts: []string{"alice", "bob"}}, bobMsgs[1])
}

func TestChangeHost_PromotesBeforeDemoting(t *testing.T) {
	// Given
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	// When
	require.NoError(t, room.ChangeHost("alice", "bob"))

	// Then the room is never hostless on the wire
	aliceMsgs := drain(boxes["alice"])
	require.Equal(t, []domain.Outbound{
		domain.HostsUpdate{Hosts: []string{"alice", "bob"}},
		domain.HostsUpdate{Hosts: []string{"bob"}},
	}, aliceMsgs)
	require.Equal(t, []string{"bob"}, room.Hosts())
	require.ErrorIs(t, room.StartQuiz("alice"), domain.ErrNotHost)
}

func TestChangeHost_UnknownTarget(t *testing.T) {
	f := newFixture(t)
	room, _ := f.room(t, "alice")

	require.ErrorIs(t, room.ChangeHost("alice", "ghost"), domain.ErrUserNotFound)
	require.Equal(t, []string{"alice"}, room.Hosts())
}

func TestUpdateURL_GoesToHostsOnly(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	require.NoError(t, room.UpdateURL("bob", "u9"))

	require.Equal(t, []domain.Outbound{domain.URLUpdateNotice{Username: "bob", URL: "u9"}}, drain(boxes["alice"]))
	require.Empty(t, drain(boxes["bob"]))
}

func TestSuggestQuiz_ForwardsToHosts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	err := room.SuggestQuiz("bob", domain.SuggestQuiz{URL: "q1", Fields: map[string]any{"title": "Flags"}})

	require.NoError(t, err)
	require.Equal(t, []domain.Outbound{domain.SuggestQuizForward{
		Username: "bob",
		URL:      "q1",
		Fields:   map[string]any{"title": "Flags"},
	}}, drain(boxes["alice"]))
	require.Empty(t, drain(boxes["bob"]))
}

func TestChangeQuiz_Broadcasts(t *testing.T) {
	f := newFixture(t)
	room, boxes := f.room(t, "alice", "bob")

	require.NoError(t, room.ChangeQuiz("bob", "q2"))

	for _, box := range boxes {
		require.Equal(t, []domain.Outbound{domain.ChangeQuizNotice{URL: "q2"}}, drain(box))
	}
}

func TestSaveData_RestoresOncePerUsername(t *testing.T) {
	// Given
	f := newFixture(t)
	save := &domain.SaveData{Scores: map[string]domain.Score{
		"alice": {Points: 30, Wins: 2},
		"bob":   {Points: 12, Wins: 1},
	}}
	aliceBox := NewMailbox(0)
	room := f.manager.CreateRoom("alice", aliceBox, "", save)

	// When
	_, err := f.manager.JoinRoom(room.Code(), "bob", NewMailbox(0), "")
	require.NoError(t, err)

	// Then
	require.Equal(t, map[string]domain.Score{
		"alice": {Points: 30, Wins: 2},
		"bob":   {Points: 12, Wins: 1},
	}, room.Scores())

	// a second arrival under the same name starts from zero
	room.Leave("bob")
	_, err = f.manager.JoinRoom(room.Code(), "bob", NewMailbox(0), "")
	require.NoError(t, err)
	require.Equal(t, domain.Score{}, room.Scores()["bob"])

	data, err := room.SaveData("alice")
	require.NoError(t, err)
	require.Equal(t, domain.Score{Points: 30, Wins: 2}, data.Scores["alice"])
	require.Empty(t, data.SaveID)
}

func TestMemberOperations_RejectStrangers(t *testing.T) {
	f := newFixture(t)
	room, _ := f.room(t, "alice")

	require.ErrorIs(t, room.UpdateURL("ghost", "u"), domain.ErrUserNotFound)
	require.ErrorIs(t, room.SendTo("ghost", domain.UsersUpdateReply{}), domain.ErrUserNotFound)
	_, err := room.SaveData("ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRoom_ConcurrentMembersKeepHost(t *testing.T) {
	// Given keeper stays for the whole run while the creator and 50 others churn
	f := newFixture(t)
	room, _ := f.room(t, "alice", "keeper")

	var wg sync.WaitGroup
	hostless := make(chan string, 64)
	check := func() {
		if len(room.Hosts()) == 0 {
			select {
			case hostless <- fmt.Sprint(room.UserCount(), " users and no host"):
			default:
			}
		}
	}

	// When
	wg.Add(1)
	go func() {
		defer wg.Done()
		room.Leave("alice")
		check()
	}()
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", i)
			if _, err := f.manager.JoinRoom(room.Code(), name, NewMailbox(0), "url-"+name); err != nil {
				return
			}
			check()
			if i%5 == 0 {
				_ = room.Promote(name)
			}
			_ = room.StartQuiz(name)
			_ = room.UpdateLiveScore(name, finish(i, float64(i)))
			_ = room.PageDisconnect(name)
			room.Leave(name)
			check()
		}()
	}
	wg.Wait()
	close(hostless)

	// Then
	for msg := range hostless {
		require.Fail(t, msg)
	}
	require.Equal(t, 1, room.UserCount())
	require.Equal(t, []string{"keeper"}, room.Hosts())

	// a quiz left running by the churn completes once keeper is done
	require.NoError(t, room.PageDisconnect("keeper"))
	require.Empty(t, room.LiveScores())
}
