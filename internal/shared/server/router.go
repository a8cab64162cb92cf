package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/docs"
	"docguard-backend/internal/enhance"
	"docguard-backend/internal/history"
	"docguard-backend/internal/llm"
	"docguard-backend/internal/llm/openai"
	"docguard-backend/internal/preview"
	"docguard-backend/internal/recommendations"
	"docguard-backend/internal/shared/config"
	"docguard-backend/internal/shared/server/middleware"
	"docguard-backend/internal/shared/server/respond"
	"docguard-backend/internal/shared/storage/db"
	"docguard-backend/internal/shared/storage/object"
	localstore "docguard-backend/internal/shared/storage/object/local"
	s3store "docguard-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// It also returns the preview service so the caller can run the expiry
// sweeper for the process lifetime.
func NewRouter(cfg config.Config) (*gin.Engine, *preview.Service) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.ReviewerIdentity(),
	)

	// Dependencies
	store := newObjectStore(cfg)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo docs.Repo
	var recRepo recommendations.Repo
	var histRepo history.Repo
	if sqlDB != nil {
		docRepo = &docs.PGRepo{DB: sqlDB}
		recRepo = &recommendations.PGRepo{DB: sqlDB}
		histRepo = &history.PGRepo{DB: sqlDB}
	} else {
		docRepo = docs.NewMemoryRepo()
		recRepo = recommendations.NewMemoryRepo()
		histRepo = history.NewMemoryRepo()
	}

	docSvc := &docs.Service{Repo: docRepo, Store: store}
	docHandler := docs.NewHandler(docSvc)

	recSvc := &recommendations.Service{Repo: recRepo}
	recHandler := recommendations.NewHandler(recSvc)

	histSvc := &history.Service{
		Repo:      histRepo,
		Docs:      docSvc,
		Recs:      recRepo,
		Store:     store,
		Retention: cfg.RollbackRetention,
	}
	histHandler := history.NewHandler(histSvc)

	orchestrator := enhance.NewOrchestrator(enhance.NewRegistry(newLLMClient(cfg)))
	previewSvc := &preview.Service{
		Orchestrator: orchestrator,
		Recs:         recRepo,
		Docs:         docSvc,
		History:      histSvc,
		Store:        preview.NewStore(),
		TTL:          cfg.PreviewTTL,
	}
	previewHandler := preview.NewHandler(previewSvc)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rateLimits()))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	docHandler.RegisterRoutes(api)
	recHandler.RegisterRoutes(api)
	previewHandler.RegisterRoutes(api)
	histHandler.RegisterRoutes(api)

	return r, previewSvc
}

// rateLimits throttles the preview-generation path, which fans out to the
// text-generation service, harder than everything else.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"GENERATE": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/validations/:id/preview" {
				return "GENERATE"
			}
			return ""
		},
	}
}

func newObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to init s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

func newLLMClient(cfg config.Config) llm.Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if cfg.LLMProvider != "openai" || apiKey == "" {
		log.Printf("no text-generation provider configured; LLM-backed handlers will skip")
		return llm.PlaceholderClient{}
	}
	client, err := openai.NewClient(apiKey, cfg.LLMModel)
	if err != nil {
		log.Printf("failed to init openai client, falling back to placeholder: %v", err)
		return llm.PlaceholderClient{}
	}
	return client
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
