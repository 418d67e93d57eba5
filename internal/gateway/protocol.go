package gateway

import "encoding/json"

// Frame types for the notification WebSocket.
const (
	FrameTypeRequest  = "req"
	FrameTypeResponse = "res"
	FrameTypeEvent    = "event"
)

// Events pushed on /ws/notifications.
const (
	EventHello                  = "hello"
	EventNotificationCurrent    = "notification.current"
	EventNotificationClassified = "notification.classified"
)

// Request methods accepted on /ws/notifications.
const (
	MethodView       = "view"
	MethodLike       = "like"
	MethodReply      = "reply"
	MethodReplyDraft = "reply.draft"
	MethodReplySend  = "reply.send"
	MethodOpen       = "open"
)

// Frame is the envelope for every WebSocket message. Type selects which of
// the request, response or event fields are set.
type Frame struct {
	Type string `json:"type"`

	// Request fields
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`

	// Response fields
	OK      *bool           `json:"ok,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`

	// Event fields
	Event string `json:"event,omitempty"`
	Seq   int64  `json:"seq,omitempty"`

	Error *ErrorShape `json:"error,omitempty"`
}

// ErrorShape is the error body of a failed response.
type ErrorShape struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Hello is the first event on a new connection.
type Hello struct {
	Protocol int      `json:"protocol"`
	ConnID   string   `json:"connId"`
	Version  string   `json:"version"`
	Messages int      `json:"messages"`
	Methods  []string `json:"methods"`
	Events   []string `json:"events"`
}

// DraftParams is the body of a reply.draft request.
type DraftParams struct {
	Text string `json:"text"`
}

// NewRequest creates a request frame.
func NewRequest(id, method string, params any) (Frame, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Type:   FrameTypeRequest,
		ID:     id,
		Method: method,
		Params: raw,
	}, nil
}

// NewResponse creates a success response frame.
func NewResponse(id string, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	ok := true
	return Frame{
		Type:    FrameTypeResponse,
		ID:      id,
		OK:      &ok,
		Payload: raw,
	}, nil
}

// NewErrorResponse creates an error response frame.
func NewErrorResponse(id string, errShape ErrorShape) Frame {
	ok := false
	return Frame{
		Type:  FrameTypeResponse,
		ID:    id,
		OK:    &ok,
		Error: &errShape,
	}
}

// NewEvent creates an event frame.
func NewEvent(event string, payload any, seq int64) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Type:    FrameTypeEvent,
		Event:   event,
		Payload: raw,
		Seq:     seq,
	}, nil
}

// ProtocolVersion is the notification protocol revision.
const ProtocolVersion = 1
