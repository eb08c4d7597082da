package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage builds the wire form of an activity event push.
func NewEventMessage(payload interface{}) []byte {
	data, _ := json.Marshal(Message{Action: "event", Payload: payload})
	return data
}

// NewErrorMessage builds the wire form of an error sent to a single client.
func NewErrorMessage(text string) []byte {
	data, _ := json.Marshal(Message{Action: "error", Payload: text})
	return data
}
