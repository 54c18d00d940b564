package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	GLOBAL_LANGUAGE             = "global.interface_language"
	LINE_CHANNEL_SECRET         = "line.channel_secret"
	LINE_CHANNEL_ACCESS_TOKEN   = "line.channel_access_token"
	SERVER_HOST                 = "server.host"
	SERVER_PORT                 = "server.port"
	SERVER_BASE_HOST            = "server.base_host"
	SERVER_READ_TIMEOUT         = "server.read_timeout"
	SERVER_WRITE_TIMEOUT        = "server.write_timeout"
	SERVER_SHUTDOWN_TIMEOUT     = "server.shutdown_timeout"
	HTTP_PROXY                  = "http.proxy"
	HTTP_NO_PROXY               = "http.no_proxy"
	AI_SYSTEM_PROMPT            = "ai.system_prompt"
	AI_DEFAULT_MODEL            = "ai.default_model"
	AI_VISION_MODEL             = "ai.vision_model"
	AI_VIDEO_MODEL              = "ai.video_model"
	AI_TIMEOUT                  = "ai.timeout"
	AI_MAX_RETRIES              = "ai.max_retries"
	AI_HISTORY_LIMIT            = "ai.history_limit"
	AI_SHARED_CONVERSATION      = "ai.shared_conversation"
	AI_PROVIDERS                = "ai.providers"
	IMAGE_ENABLED               = "image.enabled"
	IMAGE_PREFIX                = "image.prefix"
	IMAGE_MODEL                 = "image.model"
	IMAGE_SIZE                  = "image.size"
	IMAGE_QUALITY               = "image.quality"
	SEARCH_STRUCTURED_OUTPUT    = "search.structured_output"
	SESSION_BACKEND             = "session.backend"
	SESSION_TTL                 = "session.ttl"
	SESSION_PURGE_SCHEDULE      = "session.purge_schedule"
	MEDIA_DIR                   = "media.dir"
	MEDIA_RETENTION             = "media.retention"
	MEDIA_SWEEP_SCHEDULE        = "media.sweep_schedule"
	MEDIA_MAX_SIZE              = "media.max_size"
	QUEUE_WORKERS               = "queue.workers"
	QUEUE_SIZE                  = "queue.size"
	QUEUE_RATE                  = "queue.rate"
	QUEUE_BURST                 = "queue.burst"
	QUEUE_TIMEOUT               = "queue.timeout"
	DATABASE_DSN                = "database.dsn"
	LOGGING_LEVEL               = "logging.level"
	LOGGING_FORMAT              = "logging.format"
	LOGGING_WRITE_IN_FILE       = "logging.write_in_file"
	LOGGING_FILE_PATH           = "logging.file_path"
	ENV_PREFIX                  = "LINEBOT_"
	PROVIDER_GEMINI             = "gemini"
	PROVIDER_OPENAI             = "openai"
	geminiOpenAICompatibleURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	openAIURL                   = "https://api.openai.com/v1"
	defaultMediaDirName         = "linebot-media"
	defaultDatabaseFileName     = "linebot.db"
	defaultSessionBackendMemory = "memory"
)

var ErrMissingCredentials = errors.New("line channel secret and access token are required")

// legacyEnv maps the variable names used by earlier deployments to config keys.
var legacyEnv = map[string]string{
	"YOUR_CHANNEL_SECRET":       LINE_CHANNEL_SECRET,
	"YOUR_CHANNEL_ACCESS_TOKEN": LINE_CHANNEL_ACCESS_TOKEN,
	"GOOGLE_API_KEY":            "ai.providers.gemini.api_key",
	"OPENAI_API_KEY":            "ai.providers.openai.api_key",
	"SPACE_HOST":                SERVER_BASE_HOST,
	"PORT":                      SERVER_PORT,
}

var defaultSQLiteParams = map[string]string{
	"_journal":      "WAL",
	"_busy_timeout": "10000",
	"_synchronous":  "NORMAL",
	"_cache":        "shared",
	"_auto_vacuum":  "INCREMENTAL",
}

type Config struct {
	k *koanf.Koanf
}

func defaults() map[string]any {
	return map[string]any{
		GLOBAL_LANGUAGE:           "zh-TW",
		LINE_CHANNEL_SECRET:       "",
		LINE_CHANNEL_ACCESS_TOKEN: "",
		SERVER_HOST:               "0.0.0.0",
		SERVER_PORT:               7860,
		SERVER_BASE_HOST:          "",
		SERVER_READ_TIMEOUT:       15 * time.Second,
		SERVER_WRITE_TIMEOUT:      30 * time.Second,
		SERVER_SHUTDOWN_TIMEOUT:   10 * time.Second,
		HTTP_PROXY:                nil,
		HTTP_NO_PROXY:             []string{},
		AI_SYSTEM_PROMPT:          "",
		AI_DEFAULT_MODEL:          "gemini:gemini-2.0-flash",
		AI_VISION_MODEL:           "gemini:gemini-2.0-flash",
		AI_VIDEO_MODEL:            "gemini:gemini-2.5-flash",
		AI_TIMEOUT:                60 * time.Second,
		AI_MAX_RETRIES:            1,
		AI_HISTORY_LIMIT:          20,
		AI_SHARED_CONVERSATION:    false,

		"ai.providers.gemini.type":        "openai-compatible",
		"ai.providers.gemini.base_url":    geminiOpenAICompatibleURL,
		"ai.providers.gemini.env_api_key": "GEMINI_API_KEY",
		"ai.providers.openai.type":        "openai-compatible",
		"ai.providers.openai.base_url":    openAIURL,

		IMAGE_ENABLED:            true,
		IMAGE_PREFIX:             "AI ",
		IMAGE_MODEL:              "dall-e-3",
		IMAGE_SIZE:               "1024x1024",
		IMAGE_QUALITY:            "standard",
		SEARCH_STRUCTURED_OUTPUT: true,
		SESSION_BACKEND:          defaultSessionBackendMemory,
		SESSION_TTL:              0 * time.Second,
		SESSION_PURGE_SCHEDULE:   "@every 30m",
		MEDIA_DIR:                filepath.Join(os.TempDir(), defaultMediaDirName),
		MEDIA_RETENTION:          24 * time.Hour,
		MEDIA_SWEEP_SCHEDULE:     "@every 1h",
		MEDIA_MAX_SIZE:           int64(200 << 20), // LINE caps video content at 200MB
		QUEUE_WORKERS:            4,
		QUEUE_SIZE:               100,
		QUEUE_RATE:               10.0,
		QUEUE_BURST:              20,
		QUEUE_TIMEOUT:            3 * time.Minute, // above ai.timeout for every attempt plus backoff
		DATABASE_DSN:             defaultDatabaseFileName + "?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL&_cache=shared",
		LOGGING_LEVEL:            "info",
		LOGGING_FORMAT:           "text",
		LOGGING_WRITE_IN_FILE:    false,
		LOGGING_FILE_PATH:        "linebot.log",
	}
}

// Load reads the configuration and validates it for serving the webhook.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads configuration in order of increasing priority: defaults, the first
// config file found, the legacy environment names and LINEBOT_ prefixed variables.
// A .env file in the working directory is loaded into the environment first.
// Credentials are not checked, so maintenance commands can run without them.
func Read(configPath string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	for _, path := range getConfigPaths(configPath) {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config %s: %w", path, err)
			}
			break
		} else if configPath != "" {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", legacyEnvKey), nil); err != nil {
		return nil, fmt.Errorf("error loading legacy environment: %w", err)
	}

	if err := k.Load(env.Provider(ENV_PREFIX, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	return &Config{k: k}, nil
}

// LINEBOT_AI__PROVIDERS__GEMINI__API_KEY -> ai.providers.gemini.api_key
func envKey(s string) string {
	return strings.ReplaceAll(
		strings.ToLower(strings.TrimPrefix(s, ENV_PREFIX)),
		"__", ".",
	)
}

func legacyEnvKey(key, value string) (string, any) {
	target, ok := legacyEnv[key]
	if !ok || value == "" {
		return "", nil
	}
	return target, value
}

func (c *Config) Validate() error {
	line := c.Line()
	if line.ChannelSecret == "" || line.ChannelAccessToken == "" {
		return ErrMissingCredentials
	}
	switch c.Session().Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session().Backend)
	}
	if err := c.AI().Validate(); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}
	return nil
}

// FromMap builds a config from defaults overlaid with values, without reading
// files or the environment.
func FromMap(values map[string]any) *Config {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	if len(values) > 0 {
		_ = k.Load(confmap.Provider(values, "."), nil)
	}
	return &Config{k: k}
}

func (c *Config) Line() LineConfig {
	return LineConfig{
		ChannelSecret:      c.k.String(LINE_CHANNEL_SECRET),
		ChannelAccessToken: c.k.String(LINE_CHANNEL_ACCESS_TOKEN),
	}
}

func (c *Config) Server() ServerConfig {
	return ServerConfig{
		Host:            c.k.String(SERVER_HOST),
		Port:            c.k.Int(SERVER_PORT),
		BaseHost:        c.k.String(SERVER_BASE_HOST),
		ReadTimeout:     c.k.Duration(SERVER_READ_TIMEOUT),
		WriteTimeout:    c.k.Duration(SERVER_WRITE_TIMEOUT),
		ShutdownTimeout: c.k.Duration(SERVER_SHUTDOWN_TIMEOUT),
	}
}

func (c *Config) AI() AIConfig {
	var cfg AIConfig
	if err := c.k.Unmarshal("ai", &cfg); err != nil {
		log.Fatalf("aiConfig unmarshal error: %v", err)
		return AIConfig{}
	}
	for name, p := range cfg.Providers {
		p.Name = name
		cfg.Providers[name] = p
	}
	return cfg
}

func (c *Config) Image() ImageConfig {
	return ImageConfig{
		Enabled: c.k.Bool(IMAGE_ENABLED),
		Prefix:  c.k.String(IMAGE_PREFIX),
		Model:   c.k.String(IMAGE_MODEL),
		Size:    c.k.String(IMAGE_SIZE),
		Quality: c.k.String(IMAGE_QUALITY),
	}
}

func (c *Config) Search() SearchConfig {
	return SearchConfig{
		StructuredOutput: c.k.Bool(SEARCH_STRUCTURED_OUTPUT),
	}
}

func (c *Config) Session() SessionConfig {
	return SessionConfig{
		Backend:       strings.ToLower(c.k.String(SESSION_BACKEND)),
		TTL:           c.k.Duration(SESSION_TTL),
		PurgeSchedule: c.k.String(SESSION_PURGE_SCHEDULE),
	}
}

func (c *Config) Media() MediaConfig {
	return MediaConfig{
		Dir:           c.k.String(MEDIA_DIR),
		Retention:     c.k.Duration(MEDIA_RETENTION),
		SweepSchedule: c.k.String(MEDIA_SWEEP_SCHEDULE),
		MaxSize:       c.k.Int64(MEDIA_MAX_SIZE),
	}
}

func (c *Config) Queue() QueueConfig {
	workers := c.k.Int(QUEUE_WORKERS)
	if workers <= 0 {
		workers = 1
	}
	size := c.k.Int(QUEUE_SIZE)
	if size <= 0 {
		size = 1
	}
	burst := c.k.Int(QUEUE_BURST)
	if burst <= 0 {
		burst = 1
	}
	timeout := c.k.Duration(QUEUE_TIMEOUT)
	if timeout == 0 {
		timeout = 1 * time.Minute
	}
	return QueueConfig{
		Workers: workers,
		Size:    size,
		Rate:    c.k.Float64(QUEUE_RATE),
		Burst:   burst,
		Timeout: timeout,
	}
}

func (c *Config) Log() LoggingConfig {
	return LoggingConfig{
		LogLevel:    c.k.String(LOGGING_LEVEL),
		Format:      c.k.String(LOGGING_FORMAT),
		WriteInFile: c.k.Bool(LOGGING_WRITE_IN_FILE),
		FilePath:    c.k.String(LOGGING_FILE_PATH),
	}
}

func (c *Config) Global() GlobalConfig {
	return GlobalConfig{
		InterfaceLanguage: c.k.String(GLOBAL_LANGUAGE),
	}
}

func (c *Config) HTTP() HTTPConfig {
	var proxy string
	if proxyValue, ok := c.k.Get(HTTP_PROXY).(string); ok {
		proxy = proxyValue
	}

	return HTTPConfig{
		proxy:   &proxy,
		noProxy: c.k.Strings(HTTP_NO_PROXY),
	}
}

func (c *Config) GetDatabaseDSN() string {
	dsn := c.k.String(DATABASE_DSN)
	parts := strings.Split(dsn, "?")
	path := parts[0]

	params := make(map[string]string)
	if len(parts) > 1 {
		for param := range strings.SplitSeq(parts[1], "&") {
			if kv := strings.Split(param, "="); len(kv) == 2 {
				params[kv[0]] = kv[1]
			}
		}
	}

	for k, v := range defaultSQLiteParams {
		if _, exists := params[k]; !exists {
			params[k] = v
		}
	}

	var queryParams []string
	for k, v := range params {
		queryParams = append(queryParams, k+"="+v)
	}
	sort.Strings(queryParams)

	if len(queryParams) > 0 {
		return path + "?" + strings.Join(queryParams, "&")
	}
	return path
}

func getConfigPaths(configPath string) []string {
	if configPath != "" {
		return []string{configPath}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, _ := os.UserHomeDir()
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		"linebot.toml",
		"config.toml",
		filepath.Join(xdgConfig, "linebot", "config.toml"),
		"/etc/linebot/config.toml",
	}
}
