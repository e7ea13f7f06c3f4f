package main

import (
	"encoding/json"
	"testing"

	"github.com/jeremyjsx/quill/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func TestHandle_AcksPublished(t *testing.T) {
	body, err := json.Marshal(events.NewPostPublished("p1", "Hello", []string{"go"}))
	require.NoError(t, err)

	ack := &fakeAck{}
	handle(zerolog.Nop(), body, ack)
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestHandle_NacksGarbageWithoutRequeue(t *testing.T) {
	ack := &fakeAck{}
	handle(zerolog.Nop(), []byte("{not json"), ack)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
	assert.False(t, ack.acked)
}

func TestHandle_AcksUnknownType(t *testing.T) {
	ack := &fakeAck{}
	handle(zerolog.Nop(), []byte(`{"type":"post.deleted"}`), ack)
	assert.True(t, ack.acked)
}
