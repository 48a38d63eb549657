// Package agent is a client for ADK-style agent servers: the HTTP surface
// exposed by google-adk's FastAPI helper (health check, app listing, session
// creation, and the /run_sse message endpoint whose responses arrive as
// Server-Sent Events).
package agent

// Event is one decoded SSE data payload from the agent server. The server
// emits an event per response increment; most carry content, some (state
// deltas, usage metadata) do not.
type Event struct {
	ID      string   `json:"id,omitempty"`
	Author  string   `json:"author,omitempty"`
	Content *Content `json:"content,omitempty"`
}

// Content is a role plus an ordered sequence of parts, the GenAI content
// shape used both in requests (newMessage) and response events.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single piece of content. The shapes are not mutually exclusive:
// a part may carry any combination of text, a function call, and a function
// response, and every populated shape is meaningful.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall marks the agent requesting a tool invocation. The call is
// executed server-side; clients only observe that it happened.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse carries the result of a tool invocation back through the
// stream. Workshop agent tools return {status, report} objects.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Response map[string]any `json:"response,omitempty"`
}

// Report returns the response object's "report" field, if present as a
// string. The second return is false when there is no report to surface.
func (f *FunctionResponse) Report() (string, bool) {
	if f == nil || f.Response == nil {
		return "", false
	}

	report, ok := f.Response["report"].(string)
	return report, ok
}

// NewTextContent creates a single-part text content with the given role.
func NewTextContent(role, text string) Content {
	return Content{
		Role: role,
		Parts: []Part{
			{Text: text},
		},
	}
}

// Text returns the concatenated text of all text parts, in order.
func (c *Content) Text() string {
	if c == nil {
		return ""
	}

	var result string
	for _, part := range c.Parts {
		result += part.Text
	}
	return result
}
