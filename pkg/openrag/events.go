package openrag

import "encoding/json"

// StreamEvent is one decoded event from a streaming chat response. It is a
// closed union: ContentEvent, SourcesEvent, or DoneEvent. A server-side
// error event never surfaces as a StreamEvent; it becomes a *RemoteError
// returned through the stream's error path.
type StreamEvent interface {
	streamEvent()
}

// ContentEvent carries one text delta fragment of the response.
type ContentEvent struct {
	Delta string
}

// SourcesEvent carries the citation records retrieved for this exchange,
// in server order.
type SourcesEvent struct {
	Sources []Source
}

// DoneEvent signals stream completion and carries the conversation id the
// server assigned or reused for this exchange.
type DoneEvent struct {
	ChatID string
}

func (ContentEvent) streamEvent() {}
func (SourcesEvent) streamEvent() {}
func (DoneEvent) streamEvent()    {}

// eventPayload is the superset wire shape of one data-line JSON document.
// Fields irrelevant to the discriminated type are left at their zero values.
type eventPayload struct {
	Type    string   `json:"type"`
	Delta   string   `json:"delta"`
	Sources []Source `json:"sources"`
	ChatID  string   `json:"chat_id"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// decodeStreamEvent classifies a data payload into the StreamEvent union by
// its "type" discriminator.
//
// Unrecognized type values return nil, nil so new server-side event kinds
// can be skipped rather than breaking older clients. Malformed JSON returns
// a *DecodeError, and a payload of type "error" returns a *RemoteError;
// both are fatal to the stream they occurred on.
func decodeStreamEvent(data []byte) (StreamEvent, error) {
	var p eventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &DecodeError{Data: string(data), Err: err}
	}

	switch p.Type {
	case "content":
		return ContentEvent{Delta: p.Delta}, nil
	case "sources":
		return SourcesEvent{Sources: p.Sources}, nil
	case "done":
		return DoneEvent{ChatID: p.ChatID}, nil
	case "error":
		return nil, &RemoteError{Code: p.Code, Message: p.Message}
	default:
		return nil, nil
	}
}
