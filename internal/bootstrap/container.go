package bootstrap

import (
	"log"
	"os"
	"time"

	"audit-copilot-be/internal/config"
	"audit-copilot-be/internal/controller"
	"audit-copilot-be/internal/pkg/logger"
	"audit-copilot-be/internal/repository/memory"
	"audit-copilot-be/internal/repository/unitofwork"
	"audit-copilot-be/internal/service"
	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/embedding"
	embeddingOpenai "audit-copilot-be/pkg/embedding/openai"
	"audit-copilot-be/pkg/guidance"
	"audit-copilot-be/pkg/llm/factory"
	pktNats "audit-copilot-be/pkg/nats"
	"audit-copilot-be/pkg/retrieval"
	"audit-copilot-be/pkg/telemetry"
	"audit-copilot-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WorkflowController     controller.IWorkflowController
	DocumentController     controller.IDocumentController
	ConversationController controller.IConversationController
	HealthController       controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for CLI tooling
	DocumentService service.IDocumentService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embeddingOpenai.NewOpenAIProvider(
			cfg.Ai.EmbeddingBaseURL,
			cfg.Ai.APIKey,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.EmbeddingBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS telemetry is best-effort: without a broker the workflow still runs.
	var tel telemetry.Telemetry = telemetry.Nop{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	} else {
		tel = telemetry.NewNatsTelemetry(natsPub, stdLogger)
	}

	// 5. Retrieval
	cache := retrieval.NewCacheStore(
		cfg.Retrieval.CacheCapacity,
		time.Duration(cfg.Retrieval.CacheTTLMinutes)*time.Minute,
	)
	fusion := retrieval.NewScoreFusion(cfg.Retrieval.SemanticWeight, cfg.Retrieval.KeywordWeight)
	indexService := service.NewDocumentIndexService(uowFactory, embeddingProvider, fusion)
	engine := retrieval.NewEngine(
		indexService,
		indexService,
		indexService,
		cache,
		fusion,
		retrieval.Config{
			Limit:          cfg.Retrieval.Limit,
			ScoreThreshold: cfg.Retrieval.ScoreThreshold,
			MaxHops:        cfg.Retrieval.MaxHops,
		},
		stdLogger,
	)
	selector := retrieval.NewStrategySelector()

	// 6. Workflow
	conversationRepo := memory.NewConversationRepository()
	guidanceClient := guidance.NewHTTPClient(cfg.Guidance.BaseURL, cfg.Guidance.APIKey, stdLogger)
	workflowEngine := workflow.NewEngine(
		workflow.NewQuestionAnalyzer(llmProvider),
		workflow.NewContextRetriever(selector, engine),
		workflow.NewDocumentClassifier(classify.NewLLMClassifier(llmProvider, stdLogger)),
		workflow.NewComplianceAnalyzer(llmProvider),
		workflow.NewRegulatorySearcher(guidanceClient),
		workflow.NewResponseSynthesizer(llmProvider),
		conversationRepo,
		tel,
		stdLogger,
	)

	sysLogger.Info("bootstrap", "Container wired", map[string]interface{}{
		"llm_provider":       cfg.Ai.LLMProvider,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"cache_capacity":     cfg.Retrieval.CacheCapacity,
	})

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ingest.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.EmbedTopic,
		uowFactory,
		embeddingProvider,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	workflowService := service.NewWorkflowService(workflowEngine, cache)
	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub, cache)
	conversationService := service.NewConversationService(
		conversationRepo,
		uowFactory,
		workflow.NewQuestionSuggester(llmProvider),
	)

	// 8. Controllers
	return &Container{
		WorkflowController:     controller.NewWorkflowController(workflowService),
		DocumentController:     controller.NewDocumentController(documentService),
		ConversationController: controller.NewConversationController(conversationService),
		HealthController:       controller.NewHealthController(),

		ConsumerService: consumerService,
		DocumentService: documentService,
	}
}
