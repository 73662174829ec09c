package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_PublishFanOut(t *testing.T) {
	h := NewHub()
	ch1, unsub1 := h.Subscribe("sess-1")
	ch2, unsub2 := h.Subscribe("sess-1")
	defer unsub1()
	defer unsub2()

	require.Equal(t, 2, h.SubscriberCount("sess-1"))

	ev := NewRequestUpdate("req-1", "sess-1", "done", true, false, 1)
	h.Publish("sess-1", ev)

	select {
	case got := <-ch1:
		require.Equal(t, ev, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber 1 never received event")
	}
	select {
	case got := <-ch2:
		require.Equal(t, ev, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber 2 never received event")
	}
}

func TestHub_PublishIsolatesSessions(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe("sess-a")
	defer unsub()

	h.Publish("sess-b", NewAgentStatus(StepLLMThinking, 2, 5))

	select {
	case <-ch:
		t.Fatal("subscriber for sess-a received an event published to sess-b")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	_, unsub := h.Subscribe("sess-1")
	require.Equal(t, 1, h.SubscriberCount("sess-1"))
	unsub()
	require.Equal(t, 0, h.SubscriberCount("sess-1"))
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe("sess-1")
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish("sess-1", NewAgentStatus(StepSQLValidating, i, subscriberBuffer+5))
	}
	require.Len(t, ch, subscriberBuffer)
}
