package agent_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reels/pkg/agent"
)

var _ = Describe("Event", func() {
	Describe("Part", func() {
		It("unmarshals a text part", func() {
			var part agent.Part
			err := json.Unmarshal([]byte(`{"text":"hello"}`), &part)
			Expect(err).NotTo(HaveOccurred())
			Expect(part.Text).To(Equal("hello"))
			Expect(part.FunctionCall).To(BeNil())
			Expect(part.FunctionResponse).To(BeNil())
		})

		It("unmarshals a function call part", func() {
			var part agent.Part
			err := json.Unmarshal([]byte(`{"functionCall":{"name":"get_workshop_info","args":{"detail":"full"}}}`), &part)
			Expect(err).NotTo(HaveOccurred())
			Expect(part.FunctionCall).NotTo(BeNil())
			Expect(part.FunctionCall.Name).To(Equal("get_workshop_info"))
			Expect(part.FunctionCall.Args).To(HaveKeyWithValue("detail", "full"))
		})

		It("unmarshals a part carrying several shapes at once", func() {
			raw := `{"text":"Finished!","functionResponse":{"name":"tool","response":{"report":"done"}}}`

			var part agent.Part
			err := json.Unmarshal([]byte(raw), &part)
			Expect(err).NotTo(HaveOccurred())
			Expect(part.Text).To(Equal("Finished!"))
			Expect(part.FunctionResponse).NotTo(BeNil())

			report, ok := part.FunctionResponse.Report()
			Expect(ok).To(BeTrue())
			Expect(report).To(Equal("done"))
		})
	})

	Describe("FunctionResponse.Report", func() {
		It("returns the report string when present", func() {
			resp := &agent.FunctionResponse{
				Response: map[string]any{"status": "success", "report": "The current time is noon"},
			}

			report, ok := resp.Report()
			Expect(ok).To(BeTrue())
			Expect(report).To(Equal("The current time is noon"))
		})

		It("returns false when the report field is absent", func() {
			resp := &agent.FunctionResponse{
				Response: map[string]any{"status": "success"},
			}

			_, ok := resp.Report()
			Expect(ok).To(BeFalse())
		})

		It("returns false when the report field is not a string", func() {
			resp := &agent.FunctionResponse{
				Response: map[string]any{"report": 42},
			}

			_, ok := resp.Report()
			Expect(ok).To(BeFalse())
		})

		It("returns false on a nil receiver", func() {
			var resp *agent.FunctionResponse
			_, ok := resp.Report()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("NewTextContent", func() {
		It("builds a single text part with the given role", func() {
			content := agent.NewTextContent("user", "What time is it?")
			Expect(content.Role).To(Equal("user"))
			Expect(content.Parts).To(HaveLen(1))
			Expect(content.Parts[0].Text).To(Equal("What time is it?"))
		})

		It("serializes with camelCase wire names", func() {
			content := agent.NewTextContent("user", "hi")
			data, err := json.Marshal(content)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"role":"user","parts":[{"text":"hi"}]}`))
		})
	})

	Describe("Content.Text", func() {
		It("concatenates text parts in order", func() {
			content := &agent.Content{
				Parts: []agent.Part{
					{Text: "one "},
					{FunctionCall: &agent.FunctionCall{Name: "tool"}},
					{Text: "two"},
				},
			}
			Expect(content.Text()).To(Equal("one two"))
		})

		It("returns empty on a nil receiver", func() {
			var content *agent.Content
			Expect(content.Text()).To(BeEmpty())
		})
	})
})
