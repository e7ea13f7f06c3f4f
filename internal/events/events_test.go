package events

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostPublished(t *testing.T) {
	e := NewPostPublished("65f1c0ffee", "Hello", []string{"go", "blog"})

	assert.Equal(t, TypePostPublished, e.Type)
	assert.Equal(t, "65f1c0ffee", e.Payload.PostID)
	assert.Equal(t, "Hello", e.Payload.Title)
	assert.Equal(t, []string{"go", "blog"}, e.Payload.Tags)
	assert.WithinDuration(t, time.Now().UTC(), e.Timestamp, time.Second)
}

func TestNewPostPublished_NilTags(t *testing.T) {
	e := NewPostPublished("id", "t", nil)
	assert.NotNil(t, e.Payload.Tags)
	assert.Empty(t, e.Payload.Tags)
}

func TestNewMessage_RoundTrip(t *testing.T) {
	e := NewPostPublished("id-1", "Title", []string{"a"})

	msg, err := newMessage(e)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, TypePostPublished, msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	decoded, err := Decode(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, e.Payload, decoded.Payload)
	assert.True(t, e.Timestamp.Equal(decoded.Timestamp))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.ErrorContains(t, err, "decode event")
}

func TestRabbitMQPublisher_Closed(t *testing.T) {
	p := &RabbitMQPublisher{}
	require.NoError(t, p.Close())
	err := p.PublishPostPublished(context.Background(), NewPostPublished("id", "t", nil))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
