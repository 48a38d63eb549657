package config

import "strings"

// Config represents the persistent reels configuration stored as config.toml
// in the .reels/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Agent   AgentConfig  `toml:"agent"`
	Run     RunConfig    `toml:"run"`
}

// ClientConfig holds the connection settings for the remote agent server.
type ClientConfig struct {
	// Target is the agent server base URL (scheme + host + port).
	Target string `toml:"target,omitempty"`
}

// AgentConfig identifies the agent app and the user sessions are created for.
type AgentConfig struct {
	// App is the agent app name. Empty means discover it from the server's
	// /list-apps listing at run time.
	App string `toml:"app,omitempty"`

	// UserID scopes sessions on the server. Empty means a generated
	// per-process id.
	UserID string `toml:"user_id,omitempty"`
}

// RunConfig holds settings for scripted playback (reels run).
type RunConfig struct {
	// Delay is the cosmetic pause between questions, as a Go duration
	// string (e.g. "2s"). Pacing for a live audience, nothing more.
	Delay string `toml:"delay,omitempty"`

	// Questions is the scripted question reel, played in order.
	Questions []string `toml:"questions,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"agent.app": {
		get: func(c *Config) string { return c.Agent.App },
		set: func(c *Config, v string) error { c.Agent.App = v; return nil },
	},
	"agent.user_id": {
		get: func(c *Config) string { return c.Agent.UserID },
		set: func(c *Config, v string) error { c.Agent.UserID = v; return nil },
	},
	"run.delay": {
		get: func(c *Config) string { return c.Run.Delay },
		set: func(c *Config, v string) error {
			if err := validateDelay(v); err != nil {
				return err
			}
			c.Run.Delay = v
			return nil
		},
	},
	"run.questions": {
		// The question reel is a list; get/set use comma-separated form for
		// the CLI. The TOML file holds a proper array.
		get: func(c *Config) string { return strings.Join(c.Run.Questions, ", ") },
		set: func(c *Config, v string) error {
			parts := strings.Split(v, ",")
			questions := make([]string, 0, len(parts))
			for _, p := range parts {
				if q := strings.TrimSpace(p); q != "" {
					questions = append(questions, q)
				}
			}
			c.Run.Questions = questions
			return nil
		},
	},
}
