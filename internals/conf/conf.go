package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Oudwins/devtaskflow/internals/timeouts"

	z "github.com/Oudwins/zog"
)

type Config struct {
	Version   string          `json:"-"`
	Server    ServerConfig    `json:"server" zog:"server"`
	Sessions  SessionsConfig  `json:"sessions" zog:"sessions"`
	Auth      AuthConfig      `json:"auth" zog:"auth"`
	Github    GitHubConfig    `json:"github" zog:"github"`
	Workspace WorkspaceConfig `json:"workspace" zog:"workspace"`
}

type ServerConfig struct {
	DataDir string `json:"data_dir" zog:"data_dir"`
}

type SessionsConfig struct {
	TTL        string `json:"ttl" zog:"ttl"`
	CookieName string `json:"cookie_name" zog:"cookie_name"`
}

type AuthConfig struct {
	FailurePath string `json:"failure_path" zog:"failure_path"`
}

type GitHubConfig struct {
	APIURL      string `json:"api_url" zog:"api_url"`
	Concurrency int    `json:"concurrency" zog:"concurrency"`
	Timeout     string `json:"timeout" zog:"timeout"`
}

type WorkspaceConfig struct {
	Dir string `json:"dir" zog:"dir"`
}

var serverSchema = z.Struct(z.Shape{
	"DataDir": z.String().Default("~/.devtaskflow").Transform(expandPathTransform),
})

var sessionsSchema = z.Struct(z.Shape{
	"TTL":        z.String().Default("30m").TestFunc(isDuration, z.Message("ttl must be a duration")),
	"CookieName": z.String().Default("devtaskflow.sid").Trim(),
})

var authSchema = z.Struct(z.Shape{
	"FailurePath": z.String().Default("/login").Trim(),
})

var githubSchema = z.Struct(z.Shape{
	"APIURL":      z.String().Default("https://api.github.com").Trim(),
	"Concurrency": z.Int().Default(4).GT(0),
	"Timeout":     z.String().Default("10s").TestFunc(isDuration, z.Message("timeout must be a duration")),
})

var workspaceSchema = z.Struct(z.Shape{
	"Dir": z.String().Optional().Transform(expandPathTransform),
})

var ConfigSchema = z.Struct(z.Shape{
	"server":    serverSchema,
	"sessions":  sessionsSchema,
	"auth":      authSchema,
	"github":    githubSchema,
	"workspace": workspaceSchema,
})

var config *Config

func GetConfig() *Config {
	if config == nil {
		defaults := &Config{}
		if err := ConfigSchema.Parse(map[string]any{}, defaults); err != nil {
			log.Fatal("[DevTaskFlow] Failed to parse config", err)
		}
		defaults.Version = "0.1.0"
		defaults.applyDerived()

		configPath := filepath.Join(filepath.Clean(defaults.Server.DataDir), "devtaskflow.json")
		data, err := os.ReadFile(configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				config = defaults
				return config
			}
			log.Fatal("[DevTaskFlow] Failed to read config file", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			config = defaults
			return config
		}

		parsed, err := Parse(data)
		if err != nil {
			log.Fatal("[DevTaskFlow] Failed to parse config file", err)
		}
		parsed.Version = defaults.Version
		config = parsed
	}

	return config
}

// Parse decodes a JSON config document and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	parsed := &Config{}
	if errs := ConfigSchema.Parse(payload, parsed); errs != nil {
		return nil, fmt.Errorf("invalid config: %v", z.Issues.FlattenAndCollect(errs))
	}
	parsed.applyDerived()
	return parsed, nil
}

func (c *Config) applyDerived() {
	c.Server.DataDir = filepath.Clean(c.Server.DataDir)
	if c.Workspace.Dir == "" {
		c.Workspace.Dir = filepath.Join(c.Server.DataDir, "workspaces")
	}
}

func (c *Config) SessionTTL() time.Duration {
	return durationOr(c.Sessions.TTL, timeouts.SessionDefault)
}

func (c *Config) GitHubTimeout() time.Duration {
	return durationOr(c.Github.Timeout, timeouts.UpstreamCall)
}

func (c *Config) DBPath() string {
	return filepath.Join(c.Server.DataDir, "db", "devtaskflow.db")
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func isDuration(valPtr *string, ctx z.Ctx) bool {
	_, err := time.ParseDuration(*valPtr)
	return err == nil
}

func expandPathTransform(ptr *string, c z.Ctx) error {
	expanded, err := ExpandPath(*ptr)
	*ptr = expanded
	return err
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
