package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jmylchreest/toastui/internal/toast"
)

// eventRecord is the JSON form of a stack event.
type eventRecord struct {
	Event   string `json:"event"`
	Stack   string `json:"stack_id"`
	ID      uint64 `json:"id"`
	Message string `json:"message,omitempty"`
	Variant string `json:"variant,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// WriteEvent writes one stack event. JSON output is one object per line;
// every other format writes a plain line.
func WriteEvent(w io.Writer, format FormatType, ev toast.Event) error {
	if format == FormatJSON {
		return json.NewEncoder(w).Encode(eventRecord{
			Event:   string(ev.Kind),
			Stack:   ev.Stack,
			ID:      uint64(ev.ID),
			Message: ev.Message,
			Variant: string(ev.Variant),
			Reason:  string(ev.Reason),
		})
	}

	_, err := fmt.Fprintln(w, EventLine(ev))
	return err
}

// EventLine renders an event as a single line of text.
func EventLine(ev toast.Event) string {
	switch ev.Kind {
	case toast.EventShown:
		return fmt.Sprintf("%s %d %s %s", ev.Kind, ev.ID, ev.Variant, strconv.Quote(ev.Message))
	case toast.EventDismissed:
		return fmt.Sprintf("%s %d %s", ev.Kind, ev.ID, ev.Reason)
	default:
		return fmt.Sprintf("%s %d", ev.Kind, ev.ID)
	}
}
