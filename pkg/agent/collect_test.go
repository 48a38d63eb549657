package agent_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reels/pkg/agent"
	"github.com/papercomputeco/reels/pkg/sse"
)

// recordingObserver captures every notification for assertions.
type recordingObserver struct {
	texts   []string
	calls   []string
	reports []string
}

func (r *recordingObserver) OnText(text string) {
	r.texts = append(r.texts, text)
}

func (r *recordingObserver) OnFunctionCall(call *agent.FunctionCall) {
	r.calls = append(r.calls, call.Name)
}

func (r *recordingObserver) OnFunctionResponse(resp *agent.FunctionResponse) {
	report, _ := resp.Report()
	r.reports = append(r.reports, report)
}

func collect(body string, obs agent.Observer) (string, error) {
	return agent.Collect(sse.NewReader(strings.NewReader(body)), obs)
}

var _ = Describe("Collect", func() {
	var obs *recordingObserver

	BeforeEach(func() {
		obs = &recordingObserver{}
	})

	Context("with text events", func() {
		It("accumulates text parts in arrival order", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"A\"}]}}\n\n" +
				"data: {\"content\":{\"parts\":[{\"text\":\"B\"}]}}\n\n" +
				"data: {\"content\":{\"parts\":[{\"text\":\"C\"}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("ABC"))
		})

		It("accumulates multiple text parts within one event", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"Hello, \"},{\"text\":\"world\"}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Hello, world"))
		})

		It("preserves interior whitespace in the answer but trims notifications", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"  padded  \"}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("  padded  "))
			Expect(obs.texts).To(Equal([]string{"padded"}))
		})

		It("is idempotent across repeated parses of the same body", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"same\"}]}}\n\n"

			first, err := collect(body, agent.NopObserver{})
			Expect(err).NotTo(HaveOccurred())

			second, err := collect(body, agent.NopObserver{})
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Context("with function call and response parts", func() {
		It("notifies function calls without touching the answer", func() {
			body := "data: {\"content\":{\"parts\":[{\"functionCall\":{\"name\":\"get_current_time\",\"args\":{}}}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(BeEmpty())
			Expect(obs.calls).To(Equal([]string{"get_current_time"}))
		})

		It("notifies function responses that carry a report", func() {
			body := "data: {\"content\":{\"parts\":[{\"functionResponse\":{\"name\":\"get_current_time\",\"response\":{\"status\":\"success\",\"report\":\"The current time is 10:00\"}}}]}}\n\n"

			_, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.reports).To(Equal([]string{"The current time is 10:00"}))
		})

		It("skips function responses without a report", func() {
			body := "data: {\"content\":{\"parts\":[{\"functionResponse\":{\"name\":\"tool\",\"response\":{\"status\":\"success\"}}}]}}\n\n"

			_, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.reports).To(BeEmpty())
		})

		It("fires all branches for a part carrying several shapes", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"Finished!\",\"functionResponse\":{\"name\":\"done_tool\",\"response\":{\"report\":\"done\"}}}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Finished!"))
			Expect(obs.reports).To(Equal([]string{"done"}))
			Expect(obs.texts).To(Equal([]string{"Finished!"}))
		})
	})

	Context("with malformed or contentless events", func() {
		It("returns empty for a body with no data lines", func() {
			answer, err := collect("retry: 3000\n\n: keep-alive\n\n", obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(BeEmpty())
		})

		It("returns empty for an empty body", func() {
			answer, err := collect("", obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(BeEmpty())
		})

		It("ignores valid JSON events without content", func() {
			body := "data: {\"usageMetadata\":{\"totalTokenCount\":12}}\n\n" +
				"data: {\"content\":{\"parts\":[{\"text\":\"kept\"}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("kept"))
		})

		It("ignores events whose content has no parts", func() {
			body := "data: {\"content\":{\"role\":\"model\"}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(BeEmpty())
		})

		It("tolerates a malformed event between well-formed ones", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"first\"}]}}\n\n" +
				"data: {not json at all\n\n" +
				"data: {\"content\":{\"parts\":[{\"text\":\"third\"}]}}\n\n"

			answer, err := collect(body, obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("firstthird"))
		})
	})

	Context("with a truncated stream", func() {
		It("returns the partial answer alongside the read error", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"partial\"}]}}\n\n" +
				"data: " + strings.Repeat("x", 2*1024*1024)

			answer, err := collect(body, obs)
			Expect(err).To(HaveOccurred())
			Expect(answer).To(Equal("partial"))
		})
	})

	Context("with a nil observer", func() {
		It("still accumulates", func() {
			body := "data: {\"content\":{\"parts\":[{\"text\":\"quiet\"}]}}\n\n"

			answer, err := agent.Collect(sse.NewReader(strings.NewReader(body)), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("quiet"))
		})
	})
})
