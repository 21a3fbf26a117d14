package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBusDeliversToAllMembers(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	got1 := make(chan []byte, 4)
	got2 := make(chan []byte, 4)
	leave1, err := bus.Join("room", func(p []byte) { got1 <- p })
	require.NoError(t, err)
	defer leave1()
	leave2, err := bus.Join("room", func(p []byte) { got2 <- p })
	require.NoError(t, err)
	defer leave2()

	require.NoError(t, bus.Publish("room", map[string]string{"message_type": "hello"}))

	for _, got := range []chan []byte{got1, got2} {
		select {
		case payload := <-got:
			var m map[string]string
			require.NoError(t, json.Unmarshal(payload, &m))
			require.Equal(t, "hello", m["message_type"])
		case <-time.After(2 * time.Second):
			t.Fatal("member did not receive the broadcast")
		}
	}
}

func TestBusMembershipIsPerGroup(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	got := make(chan []byte, 4)
	leave, err := bus.Join("a", func(p []byte) { got <- p })
	require.NoError(t, err)
	defer leave()

	require.NoError(t, bus.Publish("b", map[string]string{"message_type": "other"}))

	select {
	case <-got:
		t.Fatal("received a broadcast for a group it never joined")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestBusLeaveStopsDelivery(t *testing.T) {
	bus := NewBus(testLogger())
	defer bus.Close()

	got := make(chan []byte, 4)
	leave, err := bus.Join("room", func(p []byte) { got <- p })
	require.NoError(t, err)

	require.NoError(t, bus.Publish("room", map[string]string{"message_type": "first"}))
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("member did not receive the broadcast")
	}

	leave()
	leave() // second call is a no-op

	require.NoError(t, bus.Publish("room", map[string]string{"message_type": "second"}))
	select {
	case <-got:
		t.Fatal("received a broadcast after leaving")
	case <-time.After(200 * time.Millisecond):
	}
}
