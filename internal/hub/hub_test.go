package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/internal/lobby"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateRoom{Code: "ZED123", State: engine.NewEmptyState(), Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetRoom{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	require.NotNil(t, lb1)
	assert.Same(t, lb1, lb2)
	assert.Equal(t, "ZED123", lb1.Code())

	assert.Same(t, lb1, h.EnsureRoom(ctx, "ZED123"))
	assert.Nil(t, h.Room(ctx, "NOPE00"))
}

func TestHub_RemoveRoomShutsItDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx)

	lb := h.EnsureRoom(ctx, "ABC123")
	require.NotNil(t, lb)
	out := make(chan frame.Frame, 4)
	lb.Inbox() <- lobby.Join{ClientID: "c1", ClientType: types.ClientDisplay, Outbox: out}
	<-out

	h.Inbox() <- RemoveRoom{Code: "ABC123"}
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("room not shut down")
	}
	assert.Nil(t, h.Room(ctx, "ABC123"))
}

func TestHub_ListAndShutdown(t *testing.T) {
	h := NewHub(context.Background())
	h.EnsureRoom(context.Background(), "ONE111")
	h.EnsureRoom(context.Background(), "TWO222")

	reply := make(chan []string, 1)
	h.Inbox() <- ListRooms{Reply: reply}
	assert.ElementsMatch(t, []string{"ONE111", "TWO222"}, <-reply)

	h.Inbox() <- ShutdownHub{}
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Nil(t, h.Room(context.Background(), "ONE111"))
}
