package mirror

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }

func joined(t *testing.T, code string, snap *types.RoomSnapshot) json.RawMessage {
	return raw(t, types.RoomJoined{AccessCode: code, ClientType: types.ClientDisplay, CurrentState: snap})
}

func TestStore_JoinThenHydrate(t *testing.T) {
	s := New(nil)
	assert.Equal(t, Idle, s.Phase())

	s.BeginJoin("ABC123")
	assert.Equal(t, Joining, s.Phase())

	snap := &types.RoomSnapshot{
		MatchData: &types.SnapshotMatch{
			TeamA: types.SnapshotTeam{
				Name:    ptr("Hà Nội"),
				Score:   ptr(2),
				Scorers: []types.ServerScorer{{Player: "Văn Quyết", Score: "45, 12,junk,12"}},
			},
		},
		View: ptr("scoreboard"),
	}
	s.Handle(types.EvtRoomJoined, joined(t, "ABC123", snap))

	require.NoError(t, s.WaitHydrated(context.Background()))
	assert.Equal(t, Hydrated, s.Phase())

	st := s.State()
	assert.Equal(t, "Hà Nội", st.Match.TeamA.Name)
	assert.Equal(t, 2, st.Match.TeamA.Score)
	assert.Equal(t, []engine.ScorerEntry{{Player: "Văn Quyết", Times: []int{12, 45}}}, st.Match.TeamA.Scorers)
	assert.Equal(t, "scoreboard", st.View.CurrentView)
	assert.False(t, st.LastUpdate.IsZero())
}

func TestStore_RoomError(t *testing.T) {
	s := New(nil)
	s.BeginJoin("NOPE00")
	s.Handle(types.EvtRoomError, raw(t, types.RoomError{Error: "invalid access code"}))

	assert.Equal(t, Errored, s.Phase())
	err := s.WaitHydrated(context.Background())
	require.ErrorIs(t, err, ErrRoomError)
	assert.Contains(t, err.Error(), "invalid access code")

	s.Handle(types.EvtRoomLeft, nil)
	assert.Equal(t, Idle, s.Phase())
}

func TestStore_WaitHydratedWakesOnAnswer(t *testing.T) {
	s := New(nil)
	s.BeginJoin("ABC123")

	done := make(chan error, 1)
	go func() { done <- s.WaitHydrated(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	s.Handle(types.EvtRoomJoined, joined(t, "ABC123", nil))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitHydrated did not return")
	}
}

func TestStore_WaitHydratedHonoursContext(t *testing.T) {
	s := New(nil)
	s.BeginJoin("ABC123")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.WaitHydrated(ctx), context.DeadlineExceeded)
}

func TestStore_RejoinSnapshotOverwritesPatches(t *testing.T) {
	s := New(nil)
	s.BeginJoin("ABC123")
	s.Handle(types.EvtRoomJoined, joined(t, "ABC123", &types.RoomSnapshot{}))

	s.Handle(types.EvtScoreUpdated, raw(t, types.ScorePayload{Scores: types.TeamPair[*int]{TeamA: ptr(3), TeamB: ptr(1)}}))
	s.Handle(types.EvtGoalScorersUpdated, raw(t, types.GoalScorerPayload{Team: engine.TeamA, Scorer: types.GoalScorer{Player: "A", Minute: ptr(10)}}))
	s.Handle(types.EvtMarqueeUpdated, raw(t, types.MarqueePayload{Marquee: types.Marquee{Text: ptr("local")}}))
	require.Equal(t, 3, s.State().Match.TeamA.Score)

	// reconnect: the relay's snapshot wins for every slice it carries
	s.BeginJoin("ABC123")
	s.Handle(types.EvtRoomJoined, joined(t, "ABC123", &types.RoomSnapshot{
		MatchData: &types.SnapshotMatch{TeamA: types.SnapshotTeam{Score: ptr(1)}},
	}))

	st := s.State()
	assert.Equal(t, 1, st.Match.TeamA.Score)
	assert.Equal(t, 0, st.Match.TeamB.Score, "match slice is rebuilt from defaults, not merged")
	assert.Empty(t, st.Match.TeamA.Scorers)
	assert.Equal(t, "local", st.Marquee.Text, "slices absent from the snapshot keep their value")
}

func TestStore_NewAccessCodeResetsState(t *testing.T) {
	s := New(nil)
	s.BeginJoin("ONE111")
	s.Handle(types.EvtRoomJoined, joined(t, "ONE111", nil))
	s.Handle(types.EvtTeamNamesUpdated, raw(t, types.TeamNamesPayload{Names: types.TeamPair[*string]{TeamA: ptr("Old")}}))

	s.BeginJoin("TWO222")
	assert.Equal(t, engine.NewEmptyState().Match.TeamA.Name, s.State().Match.TeamA.Name)
	assert.Equal(t, "TWO222", s.AccessCode())

	s.Handle(types.EvtTeamNamesUpdated, raw(t, types.TeamNamesPayload{Names: types.TeamPair[*string]{TeamA: ptr("Stale")}}))
	s.Handle(types.EvtRoomJoined, joined(t, "ONE111", &types.RoomSnapshot{View: ptr("poster")}))
	assert.Equal(t, Joining, s.Phase(), "answer for another room is ignored")
}

func TestStore_IgnoresUnknownAndMalformed(t *testing.T) {
	s := New(nil)
	before := s.State()

	s.Handle("something_new", raw(t, map[string]int{"x": 1}))
	s.Handle(types.EvtScoreUpdated, json.RawMessage(`{"scores":"nope"}`))

	assert.Equal(t, before, s.State())
}

func TestStore_DropsPatchesStampedForAnotherRoom(t *testing.T) {
	s := New(nil)
	s.BeginJoin("ONE111")
	s.Handle(types.EvtRoomJoined, joined(t, "ONE111", nil))

	stamped := func(code, name string) json.RawMessage {
		data, err := frame.Stamp(types.TeamNamesPayload{Names: types.TeamPair[*string]{TeamA: ptr(name)}}, code, time.Now())
		require.NoError(t, err)
		return data
	}

	s.Handle(types.EvtTeamNamesUpdated, stamped("TWO222", "Wrong room"))
	assert.Equal(t, engine.NewEmptyState().Match.TeamA, s.State().Match.TeamA)

	s.Handle(types.EvtTeamNamesUpdated, stamped("ONE111", "Right room"))
	assert.Equal(t, "Right room", s.State().Match.TeamA.Name)
}

func TestStore_StateIsAClone(t *testing.T) {
	s := New(nil)
	s.Handle(types.EvtGoalScorersUpdated, raw(t, types.GoalScorerPayload{Team: engine.TeamA, Scorer: types.GoalScorer{Player: "A", Minute: ptr(10)}}))

	st := s.State()
	st.Match.TeamA.Scorers[0].Times[0] = 99
	assert.Equal(t, 10, s.State().Match.TeamA.Scorers[0].Times[0])
}

func TestStore_Subscribe(t *testing.T) {
	s := New(nil)
	got := make(chan engine.State, 4)
	s.Subscribe(func(st engine.State) { got <- st })

	s.Handle(types.EvtViewUpdated, raw(t, types.ViewPayload{ViewType: ptr("halftime")}))
	select {
	case st := <-got:
		assert.Equal(t, "halftime", st.View.CurrentView)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}
