package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "marketplace.ClassifiedAdCreated", Subject("marketplace", "ClassifiedAdCreated"))
	assert.Equal(t, "ClassifiedAdCreated", Subject("", "ClassifiedAdCreated"))
}

func TestNewMessage(t *testing.T) {
	id := domain.NewClassifiedAdID(uuid.New())
	event := domain.ClassifiedAdTitleChanged{ID: id, Title: "Selling bike"}

	msg, err := newMessage("ads", ports.Envelope{ID: id.String() + "-2", Event: event})

	require.NoError(t, err)
	assert.Equal(t, "ads.ClassifiedAdTitleChanged", msg.Subject)
	assert.Equal(t, "ClassifiedAdTitleChanged", msg.Header.Get(headerEventType))
	assert.Equal(t, id.String()+"-2", msg.Header.Get(headerMsgID))

	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "Selling bike", body["title"])
}

func TestNewMessage_SameEnvelopeSameID(t *testing.T) {
	id := domain.NewClassifiedAdID(uuid.New())
	envelopes := ports.Seal(id.String(), 3, []ports.Event{
		domain.ClassifiedAdTitleChanged{ID: id, Title: "Selling bike"},
		domain.ClassifiedAdSentForReview{ID: id},
	})

	first, err := newMessage("ads", envelopes[1])
	require.NoError(t, err)
	again, err := newMessage("ads", envelopes[1])
	require.NoError(t, err)

	assert.Equal(t, first.Header.Get(headerMsgID), again.Header.Get(headerMsgID))
	assert.Equal(t, id.String()+"-3", first.Header.Get(headerMsgID))
}

func TestNewMessage_MissingID(t *testing.T) {
	_, err := newMessage("ads", ports.Envelope{Event: domain.ClassifiedAdSentForReview{}})

	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	p := NewLogPublisher("ads", log)
	id := domain.NewClassifiedAdID(uuid.New())

	err := p.Publish(context.Background(), ports.Seal(id.String(), 2, []ports.Event{
		domain.ClassifiedAdCreated{ID: id, OwnerID: domain.NewUserID(uuid.New())},
		domain.ClassifiedAdSentForReview{ID: id},
	})...)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"subject":"ads.ClassifiedAdCreated"`)
	assert.Contains(t, out, `"subject":"ads.ClassifiedAdSentForReview"`)
	assert.Contains(t, out, `"msg_id":"`+id.String()+`-1"`)
	assert.NoError(t, p.Health(context.Background()))
}
