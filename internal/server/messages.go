package server

import (
	"github.com/zeusync/srtransform/internal/core/scene"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
)

type MessageType string

const (
	MessageHello    MessageType = "hello"
	MessageObserve  MessageType = "observe"
	MessageApparent MessageType = "apparent"
	MessageError    MessageType = "error"
)

// ObserveRequest asks for a pass at a new observation state. Seq is chosen by
// the client and echoed in the reply; only the reply to the newest request
// is ever sent.
type ObserveRequest struct {
	Type  MessageType                `json:"type"`
	Seq   uint64                     `json:"seq"`
	State transform.ObservationState `json:"state"`
}

// Message is everything the server sends over the websocket.
type Message struct {
	Type    MessageType   `json:"type"`
	Session string        `json:"session,omitempty"`
	Seq     uint64        `json:"seq,omitempty"`
	Scene   *SceneSummary `json:"scene,omitempty"`
	Result  *scene.Result `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type SceneSummary struct {
	Observer transform.ObservationState `json:"observer"`
	Objects  []ObjectSummary            `json:"objects"`
}

type ObjectSummary struct {
	Name        string `json:"name"`
	Vertices    int    `json:"vertices"`
	Fingerprint string `json:"fingerprint"`
}

type errorResponse struct {
	Error string `json:"error"`
}
