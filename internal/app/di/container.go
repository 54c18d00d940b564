package di

import (
	"fmt"
	"net/http"

	"github.com/xiaohua-travel/linebot/internal/ai"
	"github.com/xiaohua-travel/linebot/internal/cache"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/database"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/markdown"
	"github.com/xiaohua-travel/linebot/internal/media"
	"github.com/xiaohua-travel/linebot/internal/network"
	"github.com/xiaohua-travel/linebot/internal/prompts"
	"github.com/xiaohua-travel/linebot/internal/queue"
	"github.com/xiaohua-travel/linebot/internal/service"
	"github.com/xiaohua-travel/linebot/internal/session"
)

type Container struct {
	Logger logger.Logger
	// DB is nil unless sessions are persisted.
	DB         database.Database
	Cache      cache.Cache
	Cfg        *config.Config
	Queue      *queue.Queue
	AI         *ai.ProviderRegistry
	Gateway    *ai.Gateway
	Images     ai.ImageCreator
	Sessions   session.Store
	Locks      *session.KeyedMutex
	HttpClient *http.Client
	Localizer  *service.Localizer
	Line       line.Client
	Media      *media.Store
	Markdown   *markdown.Sanitizer
}

func NewContainer(cfg *config.Config) (*Container, error) {
	logCfg := cfg.Log()
	l := logger.NewLogrusLogger(&logCfg)

	localizer, err := service.NewLocalizer(cfg.Global().InterfaceLanguage)
	if err != nil {
		return nil, fmt.Errorf("create localizer: %w", err)
	}

	container := &Container{
		Logger:    l,
		Cfg:       cfg,
		Localizer: localizer,
		Queue:     queue.NewQueue(cfg.Queue(), l),
		Locks:     session.NewKeyedMutex(),
		Markdown:  markdown.NewSanitizer(l),
	}

	if err := container.initSessions(); err != nil {
		return nil, err
	}

	container.HttpClient, err = network.NewClient(network.APIClientOptions(cfg.HTTP()), l)
	if err != nil {
		return nil, fmt.Errorf("configure http client: %w", err)
	}
	lineHTTPClient, err := network.NewClient(network.LineClientOptions(cfg.HTTP()), l)
	if err != nil {
		return nil, fmt.Errorf("configure line http client: %w", err)
	}

	serverCfg := cfg.Server()
	if serverCfg.PublicHost() == "" {
		l.Warn("server.base_host is not set, stored media will not be linked in replies")
	}
	mediaCfg := cfg.Media()
	container.Media, err = media.NewStore(mediaCfg, serverCfg.PublicHost(), l)
	if err != nil {
		return nil, err
	}

	lineCfg := cfg.Line()
	container.Line, err = line.NewClient(line.Options{
		ChannelSecret:      lineCfg.ChannelSecret,
		ChannelAccessToken: lineCfg.ChannelAccessToken,
		HTTPClient:         lineHTTPClient,
		MaxContentSize:     mediaCfg.MaxSize,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("create line client: %w", err)
	}
	l.Info("LINE client initialized")

	aiCfg := cfg.AI()
	registry := ai.NewProviderRegistryFromConfig(aiCfg, container.HttpClient, l)
	if len(registry.Providers()) == 0 {
		l.Warn("No AI provider has an API key, model calls will fail")
	}
	for _, name := range registry.Providers() {
		l.WithField("provider", name).Info("Initialized AI provider")
	}
	container.AI = registry
	container.Gateway = ai.NewGateway(
		registry,
		ai.NewConversationStore(aiCfg.HistoryLimit, aiCfg.SharedConversation),
		aiCfg,
		prompts.TravelAssistant,
		l,
	)

	// a nil generator reports itself disabled
	container.Images = ai.NewImageGenerator(cfg.Image(), aiCfg, container.HttpClient, l)

	return container, nil
}

func (c *Container) initSessions() error {
	sessionCfg := c.Cfg.Session()
	if !sessionCfg.Persistent() {
		memoryCache := cache.NewMemoryCache()
		c.Cache = memoryCache
		c.Sessions = session.NewCacheStore(memoryCache, sessionCfg.TTL)
		c.Logger.Info("Sessions are kept in memory")
		return nil
	}

	db, err := database.NewSQLiteDB(c.Cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("open session database: %w", err)
	}
	c.DB = db
	c.Cache = cache.NewMultiLevelCache(cache.NewMemoryCache(), cache.NewDBCache(db), c.Logger)
	c.Sessions = session.NewCacheStore(c.Cache, sessionCfg.TTL)
	c.Logger.Info("Sessions are persisted to sqlite")
	return nil
}

// Close releases resources that outlive the request path.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
