package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := ProgressPayload{
		ID:    "req-1",
		Done:  30,
		Total: 365,
	}

	msg, err := NewEnvelope(TypeSeriesProgress, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeSeriesProgress, env.Type)

	var parsed ProgressPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "req-1", parsed.ID)
	assert.Equal(t, 30, parsed.Done)
	assert.Equal(t, 365, parsed.Total)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeCatalog, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeCatalog, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(c1)
	hub.Register(c2)

	hub.CloseAll()
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c1.send
	assert.False(t, open)
	_, open = <-c2.send
	assert.False(t, open)
}

func TestClient_EnqueueDropsWhenFull(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}

	c.enqueue([]byte("first"))
	c.enqueue([]byte("second")) // dropped, must not block

	assert.Equal(t, []byte("first"), <-c.send)
	assert.Empty(t, c.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "profile:electrical", TypeProfileElectrical)
	assert.Equal(t, "profile:heat", TypeProfileHeat)
	assert.Equal(t, "profile:vdi", TypeProfileVDI)
	assert.Equal(t, "profile:industrial", TypeProfileIndustrial)
	assert.Equal(t, "catalog", TypeCatalog)
	assert.Equal(t, "series:chunk", TypeSeriesChunk)
	assert.Equal(t, "series:progress", TypeSeriesProgress)
	assert.Equal(t, "series:done", TypeSeriesDone)
	assert.Equal(t, "error", TypeError)
}
