package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reels/pkg/agent"
)

// agentServer is a minimal stand-in for an ADK FastAPI server.
type agentServer struct {
	*httptest.Server

	apps        []string
	sessionCode int
	runBody     string
	runCalls    atomic.Int64
}

func newAgentServer() *agentServer {
	s := &agentServer{
		apps:        []string{"ruby_workshop_agent"},
		sessionCode: http.StatusOK,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	mux.HandleFunc("GET /list-apps", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(s.apps)
	})

	mux.HandleFunc("POST /apps/{app}/users/{user}/sessions", func(w http.ResponseWriter, r *http.Request) {
		if s.sessionCode != http.StatusOK {
			http.Error(w, "session store unavailable", s.sessionCode)
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":      "sess-123",
			"appName": r.PathValue("app"),
			"userId":  r.PathValue("user"),
		})
	})

	mux.HandleFunc("POST /run_sse", func(w http.ResponseWriter, _ *http.Request) {
		s.runCalls.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, s.runBody)
	})

	s.Server = httptest.NewServer(mux)
	return s
}

var _ = Describe("Client", func() {
	var (
		server *agentServer
		client *agent.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		server = newAgentServer()
		client = agent.NewClient(agent.Config{
			Target: server.URL,
			App:    "ruby_workshop_agent",
			UserID: "workshop-user",
		})
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Health", func() {
		It("returns nil when the server is up", func() {
			Expect(client.Health(ctx)).To(Succeed())
		})

		It("returns a StatusError on a non-2xx response", func() {
			broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			}))
			defer broken.Close()

			c := agent.NewClient(agent.Config{Target: broken.URL})
			err := c.Health(ctx)

			var statusErr *agent.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(statusErr.Endpoint).To(Equal("/health"))
		})

		It("returns a transport error when the server is gone", func() {
			server.Close()
			err := client.Health(ctx)
			Expect(err).To(HaveOccurred())

			var statusErr *agent.StatusError
			Expect(errors.As(err, &statusErr)).To(BeFalse())
		})
	})

	Describe("ListApps", func() {
		It("returns the app listing", func() {
			apps, err := client.ListApps(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(Equal([]string{"ruby_workshop_agent"}))
		})

		It("returns a DecodeError on a malformed body", func() {
			broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "not json")
			}))
			defer broken.Close()

			c := agent.NewClient(agent.Config{Target: broken.URL})
			_, err := c.ListApps(ctx)

			var decodeErr *agent.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})
	})

	Describe("Probe", func() {
		It("returns the app listing when both calls succeed", func() {
			apps, err := client.Probe(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(apps).To(Equal([]string{"ruby_workshop_agent"}))
		})

		It("fails when the server is unreachable", func() {
			server.Close()
			_, err := client.Probe(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResolveApp", func() {
		It("returns the configured app without touching the server", func() {
			server.Close()
			app, err := client.ResolveApp(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(app).To(Equal("ruby_workshop_agent"))
		})

		It("discovers the first listed app when none is configured", func() {
			server.apps = []string{"first_agent", "second_agent"}
			c := agent.NewClient(agent.Config{Target: server.URL})

			app, err := c.ResolveApp(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(app).To(Equal("first_agent"))
		})

		It("returns ErrNoApps on an empty listing", func() {
			server.apps = []string{}
			c := agent.NewClient(agent.Config{Target: server.URL})

			_, err := c.ResolveApp(ctx)
			Expect(err).To(MatchError(agent.ErrNoApps))
		})
	})

	Describe("CreateSession", func() {
		It("returns a session with the server-issued id", func() {
			session, err := client.CreateSession(ctx, "ruby_workshop_agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.ID).To(Equal("sess-123"))
			Expect(session.AppName).To(Equal("ruby_workshop_agent"))
			Expect(session.UserID).To(Equal("workshop-user"))
		})

		It("returns a StatusError when the server refuses", func() {
			server.sessionCode = http.StatusInternalServerError

			_, err := client.CreateSession(ctx, "ruby_workshop_agent")

			var statusErr *agent.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Code).To(Equal(http.StatusInternalServerError))
		})

		It("returns a DecodeError when the id is missing", func() {
			broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"state":{}}`)
			}))
			defer broken.Close()

			c := agent.NewClient(agent.Config{Target: broken.URL, App: "a", UserID: "u"})
			_, err := c.CreateSession(ctx, "a")

			var decodeErr *agent.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})
	})

	Describe("Run", func() {
		It("collects the answer and dispatches tool notifications", func() {
			server.runBody = "data: {\"content\":{\"parts\":[{\"functionCall\":{\"name\":\"get_current_time\",\"args\":{}}}]}}\n\n" +
				"data: {\"content\":{\"parts\":[{\"functionResponse\":{\"name\":\"get_current_time\",\"response\":{\"report\":\"done\"}}}]}}\n\n" +
				"data: {\"content\":{\"parts\":[{\"text\":\"Finished!\"}]}}\n\n"

			session, err := client.CreateSession(ctx, "ruby_workshop_agent")
			Expect(err).NotTo(HaveOccurred())

			obs := &recordingObserver{}
			answer, err := client.Run(ctx, session, "What time is it?", obs)
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("Finished!"))
			Expect(obs.calls).To(Equal([]string{"get_current_time"}))
			Expect(obs.reports).To(Equal([]string{"done"}))
		})

		It("returns an empty answer for a text-free stream", func() {
			server.runBody = "data: {\"content\":{\"parts\":[{\"functionCall\":{\"name\":\"tool\",\"args\":{}}}]}}\n\n"

			session, err := client.CreateSession(ctx, "ruby_workshop_agent")
			Expect(err).NotTo(HaveOccurred())

			answer, err := client.Run(ctx, session, "q", agent.NopObserver{})
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(BeEmpty())
		})
	})

	Describe("Ask", func() {
		It("runs the full lifecycle", func() {
			server.runBody = "data: {\"content\":{\"parts\":[{\"text\":\"All good\"}]}}\n\n"

			answer, err := client.Ask(ctx, "How is it going?", agent.NopObserver{})
			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(Equal("All good"))
			Expect(server.runCalls.Load()).To(Equal(int64(1)))
		})

		It("short-circuits when session creation fails", func() {
			server.sessionCode = http.StatusInternalServerError

			_, err := client.Ask(ctx, "q", agent.NopObserver{})
			Expect(err).To(HaveOccurred())
			Expect(server.runCalls.Load()).To(BeZero(), "no message may be submitted without a session")
		})
	})

	Describe("NewClient", func() {
		It("generates a user id when none is configured", func() {
			c := agent.NewClient(agent.Config{Target: server.URL})
			Expect(c.UserID()).To(HavePrefix("reels-"))
		})

		It("keeps a configured user id", func() {
			Expect(client.UserID()).To(Equal("workshop-user"))
		})
	})
})
