package config

const (
	// defaultTarget matches the port the workshop agent server binds.
	defaultTarget = "http://localhost:4000"

	defaultDelay = "2s"
)

// defaultQuestions is the stock workshop reel, matching the tools the demo
// agent ships with.
var defaultQuestions = []string{
	"What time is it?",
	"What is this workshop about?",
	"How do I call an AI agent from a Rails service?",
	"How should I deploy the agent to Kubernetes?",
}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	questions := make([]string, len(defaultQuestions))
	copy(questions, defaultQuestions)

	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Target: defaultTarget,
		},
		Agent: AgentConfig{
			App:    "",
			UserID: "",
		},
		Run: RunConfig{
			Delay:     defaultDelay,
			Questions: questions,
		},
	}
}
