// Package server wires the echosql HTTP API together: warehouse pool,
// schema bundler, vector index, prompt assembler, LLM module, repair-loop
// runner, and the v1 handlers, then runs gin with a graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"

	ginpprof "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/kiosk404/echosql/internal/cache"
	"github.com/kiosk404/echosql/internal/config"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/events"
	"github.com/kiosk404/echosql/internal/handler/middleware"
	v1 "github.com/kiosk404/echosql/internal/handler/v1"
	"github.com/kiosk404/echosql/internal/llm"
	llmentity "github.com/kiosk404/echosql/internal/llm/domain/entity"
	"github.com/kiosk404/echosql/internal/options"
	pkgoptions "github.com/kiosk404/echosql/internal/pkg/options"
	"github.com/kiosk404/echosql/internal/promptpack"
	"github.com/kiosk404/echosql/internal/queryflow"
	"github.com/kiosk404/echosql/internal/schema"
	"github.com/kiosk404/echosql/internal/store/boltdb"
	"github.com/kiosk404/echosql/internal/store/inmemory"
	"github.com/kiosk404/echosql/internal/toolcontract"
	"github.com/kiosk404/echosql/internal/vectorindex"
	"github.com/kiosk404/echosql/internal/warehouse"
	"github.com/kiosk404/echosql/pkg/http/shutdown"
	"github.com/kiosk404/echosql/pkg/http/shutdown/posixsignal"
	"github.com/kiosk404/echosql/pkg/logger"
)

const (
	promptSlotSpecs = "interactive_query"
	promptComponent = "core"
)

// Server owns the process's long-lived components and the HTTP listener
// built from them.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	httpSrv *http.Server
	gs      *shutdown.GracefulShutdown

	warehousePool *warehouse.Pool
	llmModule     *llm.Module
	boltDB        *boltdb.DB // nil when running on the in-memory store
	recovery      *queryflow.CrashRecoveryMonitor
}

// New builds every component from cfg but does not start serving.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	gin.SetMode(ginModeFor(cfg.ServerOptions.Mode))

	whCfg, err := warehouse.LoadConfig(cfg.WarehouseOptions.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load warehouse config: %w", err)
	}
	pool := warehouse.NewPool(whCfg)
	validator := warehouse.NewValidator(pool)

	cacheStore, err := buildCacheStore(ctx, cfg.CacheOptions)
	if err != nil {
		return nil, fmt.Errorf("build cache store: %w", err)
	}
	bundler := schema.NewBundler(pool, whCfg, cache.New(cacheStore))

	index, err := buildVectorIndex(cfg.VectorIndexOptions, whCfg)
	if err != nil {
		return nil, fmt.Errorf("build vector index: %w", err)
	}

	assembler := promptpack.NewAssembler(
		promptComponent,
		"templates",
		"resources/core/system-pack/v1",
		"client-configs",
		map[string]promptpack.SlotSpec{
			promptSlotSpecs: {Required: []string{"user_request", "schema_block", "dialect"}},
		},
	)

	llmModule, err := (&llm.Config{ModelOptions: cfg.ModelOptions}).Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init llm module: %w", err)
	}

	sessions, requests, queries, boltDB, err := buildStores(cfg.StoreOptions)
	if err != nil {
		return nil, fmt.Errorf("build operational store: %w", err)
	}

	ctxBuilder := queryflow.NewContextBuilder(requests, pool, index, bundler, assembler, queryflow.DefaultContextBuildConfig())
	hub := events.NewHub()
	tools := toolcontract.NewService(whCfg, pool, bundler, index, validator, queries)

	fallbackCfg := defaultFallbackConfig(cfg.ModelOptions)
	runner := queryflow.NewRunner(queryflow.DefaultRunnerConfig(fallbackCfg), requests, queries, ctxBuilder, llmModule.Fallback, validator, hub).WithTools(tools)

	recovery := queryflow.NewCrashRecoveryMonitor(requests, queryflow.DefaultCrashRecoveryInterval, queryflow.DefaultCrashRecoveryAge)

	sessionHandler := v1.NewSessionHandler(sessions)
	requestHandler := v1.NewRequestHandler(sessions, requests, queries, runner, cfg.WarehouseOptions.DefaultProfile, cfg.ServerOptions.ReadTimeout)
	streamHandler := v1.NewStreamHandler(sessions, requests, hub)
	dataHandler := v1.NewDataHandler(queries, pool)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.RequireAuth(&middleware.AuthConfig{Enabled: cfg.AuthOptions.Enabled}))

	if cfg.ServerOptions.EnablePprof {
		ginpprof.Register(engine)
	}

	engine.POST("/sessions", sessionHandler.Create)
	engine.GET("/sessions/:id", sessionHandler.Get)
	engine.POST("/sessions/:id/requests", requestHandler.Create)
	engine.GET("/requests/:id", requestHandler.Get)
	engine.GET("/sessions/:id/stream", streamHandler.Stream)
	engine.GET("/data/:query_id", dataHandler.Get)
	engine.GET("/data/:query_id/lineage", dataHandler.Lineage)

	gs := shutdown.New()
	gs.AddShutdownManager(posixsignal.NewPosixSignalManager())

	return &Server{
		cfg:    cfg,
		engine: engine,
		gs:     gs,

		warehousePool: pool,
		llmModule:     llmModule,
		boltDB:        boltDB,
		recovery:      recovery,
	}, nil
}

// Run starts the HTTP listener and blocks until a shutdown signal fires.
func (s *Server) Run() error {
	s.httpSrv = &http.Server{
		Addr:         s.cfg.ServerOptions.Address(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ServerOptions.ReadTimeout,
		WriteTimeout: s.cfg.ServerOptions.WriteTimeout,
	}

	s.recovery.Start()

	s.gs.AddShutdownCallback(shutdown.Func(func(name string) error {
		logger.Info("shutting down HTTP server (%s)", name)
		s.recovery.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ServerOptions.ShutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			return err
		}
		if s.boltDB != nil {
			if err := s.boltDB.Close(); err != nil {
				return err
			}
		}
		return s.warehousePool.Close()
	}))

	if err := s.gs.Start(); err != nil {
		return fmt.Errorf("start shutdown manager: %w", err)
	}

	logger.Info("echosql listening on %s", s.cfg.ServerOptions.Address())
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func ginModeFor(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// buildStores returns the in-memory stores when opts.Path is empty, or a
// shared BoltDB instance's stores otherwise. The returned *boltdb.DB is
// nil in the in-memory case, signalling Run has nothing to close.
func buildStores(opts *options.StoreOptions) (repo.SessionRepo, repo.RequestRepo, repo.QueryRepo, *boltdb.DB, error) {
	if opts.Path == "" {
		return inmemory.NewSessionStore(), inmemory.NewRequestStore(), inmemory.NewQueryStore(), nil, nil
	}

	db, err := boltdb.Open(opts.Path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return boltdb.NewSessionStore(db), boltdb.NewRequestStore(db), boltdb.NewQueryStore(db), db, nil
}

func buildCacheStore(ctx context.Context, opts *options.CacheOptions) (cache.Store, error) {
	if opts.Enabled && opts.Endpoint != "" {
		return cache.NewRedis(ctx, opts.Endpoint, opts.Password, opts.DB)
	}
	return cache.NewMemory(), nil
}

func buildVectorIndex(opts *options.VectorIndexOptions, whCfg *warehouse.Config) (*vectorindex.Index, error) {
	var qdrant *vectorindex.QdrantStore
	if opts.Host != "" {
		var err error
		qdrant, err = vectorindex.NewQdrantStore(vectorindex.QdrantConfig{
			Host:               opts.Host,
			Port:               opts.Port,
			APIKey:             opts.APIKey,
			UseTLS:             opts.UseTLS,
			ExamplesCollection: opts.ExamplesCollection,
			TablesCollection:   opts.TablesCollection,
		})
		if err != nil {
			return nil, err
		}
	}
	provider := vectorindex.NewOpenAIProvider(vectorindex.OpenAIProviderOptions{
		APIKey:  opts.EmbeddingAPIKey,
		BaseURL: opts.EmbeddingBaseURL,
		Model:   opts.EmbeddingModel,
	})
	return vectorindex.NewIndexFromWarehouseConfig(provider, qdrant, whCfg), nil
}

func defaultFallbackConfig(m *pkgoptions.ModelOptions) llmentity.FallbackConfig {
	return llmentity.FallbackConfig{
		Primary: llmentity.ModelRef{ProviderID: m.DefaultProvider, ModelID: m.DefaultModel},
		// The repair loop always drives StructuredCall (§4.6); prefer
		// providers with server-enforced JSON mode over ones that would
		// just add another malformed-response repair attempt.
		RequireJSONMode: true,
	}
}
