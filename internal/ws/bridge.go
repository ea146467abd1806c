package ws

import (
	"log"

	"demand_generator/internal/generator"
)

// Bridge implements generator.Callback and broadcasts one generation stream
// to the hub. Every request gets its own bridge carrying the client's
// correlation id.
type Bridge struct {
	hub *Hub
	id  string
}

func NewBridge(hub *Hub, id string) *Bridge {
	return &Bridge{hub: hub, id: id}
}

func (b *Bridge) OnProgress(done, total int) {
	b.broadcast(TypeSeriesProgress, ProgressPayload{ID: b.id, Done: done, Total: total})
}

func (b *Bridge) OnSeries(chunk generator.SeriesChunk) {
	b.broadcast(TypeSeriesChunk, ChunkPayload{ID: b.id, SeriesChunk: chunk})
}

func (b *Bridge) OnDone(summary generator.Summary) {
	b.broadcast(TypeSeriesDone, DonePayload{ID: b.id, Summary: summary})
}

func (b *Bridge) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		log.Printf("Error marshaling %s: %v", msgType, err)
		return
	}
	b.hub.Broadcast(msg)
}
