package contract

import "fmt"

type EventKind string

const (
	EventStatus     EventKind = "status"
	EventToolResult EventKind = "tool_result"
	EventText       EventKind = "text"
	EventError      EventKind = "error"
)

// Event is one value of a turn's output stream. Text carries the payload for
// status, text and error events; ToolResult is set only for EventToolResult.
type Event struct {
	Kind       EventKind        `json:"kind"`
	Text       string           `json:"text,omitempty"`
	ToolResult *ToolResultEvent `json:"tool_result,omitempty"`
}

type ToolResultEvent struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    string         `json:"result"`
}

func StatusEvent(text string) Event {
	return Event{Kind: EventStatus, Text: text}
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Text: fmt.Sprintf("Error processing message: %v", err)}
}

func ToolResultEventOf(name string, args map[string]any, result string) Event {
	return Event{
		Kind: EventToolResult,
		ToolResult: &ToolResultEvent{
			ToolName:  name,
			Arguments: args,
			Result:    result,
		},
	}
}

// EventSink receives events in emission order.
type EventSink func(Event)

func (s EventSink) Emit(ev Event) {
	if s != nil {
		s(ev)
	}
}
