package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/papercomputeco/reels/pkg/sse"
)

// Observer receives side-channel notifications while a response stream is
// collected. Function calls and tool reports are observation-only: they are
// never part of the accumulated answer.
type Observer interface {
	// OnText is called for each text part, whitespace-trimmed for display.
	OnText(text string)

	// OnFunctionCall is called when the agent requests a tool invocation.
	OnFunctionCall(call *FunctionCall)

	// OnFunctionResponse is called for tool results that carry a report.
	OnFunctionResponse(resp *FunctionResponse)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) OnText(string)                        {}
func (NopObserver) OnFunctionCall(*FunctionCall)         {}
func (NopObserver) OnFunctionResponse(*FunctionResponse) {}

// Collect drains an SSE response stream and returns the agent's answer: the
// concatenation of every text part's content, in arrival order, with no
// reordering or dedup.
//
// Decoding is best-effort per event. Event data that is not valid JSON is
// skipped, as are events without content parts; one corrupt event never
// aborts the rest of the stream. A read error mid-stream is returned along
// with whatever text accumulated before it, so callers can tell a truncated
// stream (partial text, non-nil error) from an answer with no text at all
// (empty text, nil error).
func Collect(r *sse.Reader, obs Observer) (string, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	var answer strings.Builder

	for {
		ev, err := r.Next()
		if err != nil {
			return answer.String(), fmt.Errorf("reading response stream: %w", err)
		}
		if ev == nil {
			return answer.String(), nil
		}

		var decoded Event
		if err := json.Unmarshal([]byte(ev.Data), &decoded); err != nil {
			// Tolerate malformed events.
			continue
		}

		if decoded.Content == nil {
			continue
		}

		for i := range decoded.Content.Parts {
			part := &decoded.Content.Parts[i]

			// All applicable shapes fire for a single part.
			if part.FunctionCall != nil {
				obs.OnFunctionCall(part.FunctionCall)
			}

			if _, ok := part.FunctionResponse.Report(); ok {
				obs.OnFunctionResponse(part.FunctionResponse)
			}

			if part.Text != "" {
				answer.WriteString(part.Text)
				obs.OnText(strings.TrimSpace(part.Text))
			}
		}
	}
}
