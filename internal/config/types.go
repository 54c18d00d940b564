package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type GlobalConfig struct {
	InterfaceLanguage string `koanf:"interface_language"`
}

type LineConfig struct {
	ChannelSecret      string `koanf:"channel_secret"`
	ChannelAccessToken string `koanf:"channel_access_token"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	BaseHost        string        `koanf:"base_host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PublicHost returns the externally reachable host without scheme or trailing slash.
func (c ServerConfig) PublicHost() string {
	host := strings.TrimSpace(c.BaseHost)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimRight(host, "/")
}

type HTTPConfig struct {
	proxy   *string
	noProxy []string
}

func (c HTTPConfig) GetProxy() string {
	if c.proxy != nil && *c.proxy != "" {
		return *c.proxy
	}
	if proxyURL := os.Getenv("HTTPS_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("https_proxy"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("HTTP_PROXY"); proxyURL != "" {
		return proxyURL
	}
	if proxyURL := os.Getenv("http_proxy"); proxyURL != "" {
		return proxyURL
	}
	return ""
}

func (c HTTPConfig) GetNoProxy() []string {
	if len(c.noProxy) > 0 {
		return c.noProxy
	}
	value := os.Getenv("NO_PROXY")
	if value == "" {
		value = os.Getenv("no_proxy")
	}
	var hosts []string
	for host := range strings.SplitSeq(value, ",") {
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

type LoggingConfig struct {
	LogLevel    string `koanf:"level"`
	Format      string `koanf:"format"`
	WriteInFile bool   `koanf:"write_in_file"`
	FilePath    string `koanf:"file_path"`
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}

func (c LoggingConfig) IsDebug() bool {
	return c.Level() == "debug" || c.Level() == "trace"
}

func (c LoggingConfig) IsJSON() bool {
	return strings.EqualFold(c.Format, "json")
}

type AIProviderConfig struct {
	Type      string `koanf:"type"`
	Name      string `koanf:"name"`
	BaseURL   string `koanf:"base_url"`
	APIKey    string `koanf:"api_key"`
	EnvAPIKey string `koanf:"env_api_key"`
}

func (c *AIProviderConfig) GetAPIKey() string {
	var apiKey string
	if key := c.APIKey; key != "" {
		apiKey = key
	} else if c.EnvAPIKey != "" {
		apiKey = os.Getenv(c.EnvAPIKey)
	}
	return apiKey
}

type AIConfig struct {
	SystemPrompt       string                      `koanf:"system_prompt"`
	DefaultModel       string                      `koanf:"default_model"`
	VisionModel        string                      `koanf:"vision_model"` // image captions
	VideoModel         string                      `koanf:"video_model"`
	Timeout            time.Duration               `koanf:"timeout"`
	MaxRetries         int                         `koanf:"max_retries"`
	HistoryLimit       int                         `koanf:"history_limit"`
	SharedConversation bool                        `koanf:"shared_conversation"`
	Providers          map[string]AIProviderConfig `koanf:"providers"`
}

func (c AIConfig) GetProvider(name string) *AIProviderConfig {
	p, ok := c.Providers[name]
	if !ok {
		return nil
	}
	return &p
}

func (c AIConfig) GetVisionModel() string {
	if model := c.VisionModel; model != "" {
		return model
	}
	return c.DefaultModel
}

func (c AIConfig) GetVideoModel() string {
	if model := c.VideoModel; model != "" {
		return model
	}
	return c.GetVisionModel()
}

func (c AIConfig) GetDefaultProviderAndModel() (provider, model string) {
	parts := strings.SplitN(c.DefaultModel, ":", 2)
	if len(parts) < 2 {
		return "", c.DefaultModel
	}
	return parts[0], parts[1]
}

func (c AIConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

type ImageConfig struct {
	Enabled bool   `koanf:"enabled"`
	Prefix  string `koanf:"prefix"`
	Model   string `koanf:"model"`
	Size    string `koanf:"size"`
	Quality string `koanf:"quality"`
}

type SearchConfig struct {
	// Ask the model for <entry> tagged results before falling back to numbered lines.
	StructuredOutput bool `koanf:"structured_output"`
}

type SessionConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	PurgeSchedule string        `koanf:"purge_schedule"`
}

func (c SessionConfig) Persistent() bool {
	return c.Backend == "sqlite"
}

type MediaConfig struct {
	Dir           string        `koanf:"dir"`
	Retention     time.Duration `koanf:"retention"`
	SweepSchedule string        `koanf:"sweep_schedule"`
	MaxSize       int64         `koanf:"max_size"`
}

type QueueConfig struct {
	Workers int           `koanf:"workers"`
	Size    int           `koanf:"size"`
	Rate    float64       `koanf:"rate"` // tasks per second, 0 disables throttling
	Burst   int           `koanf:"burst"`
	Timeout time.Duration `koanf:"timeout"`
}
