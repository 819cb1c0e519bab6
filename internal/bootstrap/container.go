package bootstrap

import (
	"context"
	"log"
	"time"

	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/controller"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/pkg/mailer"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/internal/server"
	"kanzlei-ai-be/internal/service"
	"kanzlei-ai-be/internal/websocket"
	"kanzlei-ai-be/pkg/agent"
	"kanzlei-ai-be/pkg/agent/ratelimit"
	"kanzlei-ai-be/pkg/embedding"
	"kanzlei-ai-be/pkg/llm/factory"
	"kanzlei-ai-be/pkg/retrieval"
	"kanzlei-ai-be/pkg/schriftsatz"
	"kanzlei-ai-be/pkg/tools"

	pkgNats "kanzlei-ai-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Controllers server.Controllers

	// Exposed for main.go to run and shut down.
	AgentService *service.AgentService
	Runner       *service.BackgroundRunner
	PendingStore *schriftsatz.PendingStore
	WebSocketHub *websocket.Hub
	NatsPub      *pkgNats.Publisher
	NatsSub      *pkgNats.Subscriber
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.TierTwoModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.TierTwoModel)

	// 3. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	// Only assign into the interface on success. A typed-nil *Publisher
	// would slip past the services' nil checks and panic on first use.
	var eventPub service.EventPublisher
	if natsPub != nil {
		eventPub = natsPub
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsHub := websocket.NewHub(logger.NewIsolatedLogger("logs/notification.log"))

	// 4. Agent Core
	limiter := ratelimit.NewLimiter(
		ratelimit.NewRedisStore(rdb),
		cfg.Agent.RateLimitPerHour,
		time.Hour,
		sysLogger,
	)
	toolRegistry := tools.NewRegistry(sysLogger, tools.DefaultTools()...)
	searcher := retrieval.NewSearcher(embeddingProvider, uowFactory, sysLogger)

	// 5. Schriftsatz Pipeline
	klageartRegistry := schriftsatz.NewRegistry()
	router := schriftsatz.NewRouter(llmProvider, klageartRegistry, sysLogger)
	assembler := schriftsatz.NewAssembler(searcher, llmProvider, sysLogger)
	pendingStore := schriftsatz.NewPendingStore(
		uowFactory,
		time.Duration(cfg.Agent.PendingTTLDays)*24*time.Hour,
		sysLogger,
	)
	pipeline := schriftsatz.NewPipeline(klageartRegistry, router, assembler, pendingStore, uowFactory, sysLogger)

	// 6. Services
	usageService := service.NewUsageService(uowFactory, eventPub, sysLogger)
	orchestrator := agent.NewOrchestrator(usageService, sysLogger)
	runner := service.NewBackgroundRunner(sysLogger)
	agentService := service.NewAgentService(
		cfg,
		llmProvider,
		orchestrator,
		limiter,
		toolRegistry,
		pipeline,
		pendingStore,
		uowFactory,
		runner,
		wsHub,
		eventPub,
		sysLogger,
	)

	emailer := mailer.New(cfg.SMTP)
	notificationService := service.NewNotificationService(uowFactory, wsHub, emailer, sysLogger)
	if natsSub != nil {
		if err := notificationService.Start(natsSub); err != nil {
			log.Printf("[WARN] Failed to subscribe notification consumers: %v", err)
		}
	}

	draftService := service.NewDraftService(uowFactory, sysLogger)

	// 7. Controllers
	controllers := server.Controllers{
		Agent:        controller.NewAgentController(agentService),
		Draft:        controller.NewDraftController(draftService),
		Notification: controller.NewNotificationController(notificationService),
		Usage:        controller.NewUsageController(usageService),
	}

	return &Container{
		Controllers:  controllers,
		AgentService: agentService,
		Runner:       runner,
		PendingStore: pendingStore,
		WebSocketHub: wsHub,
		NatsPub:      natsPub,
		NatsSub:      natsSub,
		Logger:       sysLogger,
	}
}
