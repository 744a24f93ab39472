package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ErrMalformed marks a message whose payload cannot be decoded. Such
// messages skip retries and go straight to the poison topic.
var ErrMalformed = errors.New("events: malformed payload")

// PoisonTopic receives messages whose handler kept failing.
const PoisonTopic = "morsel.poison"

const metaEventVersion = "event_version"

// NewMessage encodes event as JSON. The message UUID is the event id so
// every redelivery of one event carries the same id.
func NewMessage(eventID uuid.UUID, version int, event any) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %T: %w", event, err)
	}
	msg := message.NewMessage(eventID.String(), payload)
	msg.Metadata.Set(metaEventVersion, strconv.Itoa(version))
	return msg, nil
}

// Decode unmarshals the payload of msg into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("%w: message %s: %v", ErrMalformed, msg.UUID, err)
	}
	return v, nil
}

// Version returns the schema version stamped by NewMessage, or 0.
func Version(msg *message.Message) int {
	v, err := strconv.Atoi(msg.Metadata.Get(metaEventVersion))
	if err != nil {
		return 0
	}
	return v
}
