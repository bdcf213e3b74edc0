// Package main is the entry point for the FEA worker.
// The worker claims pending jobs from the database, drives the external
// compute engine, and persists artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/artifacts"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/config"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/logger"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/observability"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/store/postgres"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/worker"
	"github.com/Saasvidu/agentic-engineering-workflow-automation/internal/worker/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: feaplane.yaml in current directory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer store.Close()

	// Tracing
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "fea-worker", cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("Failed to shutdown tracer: %v", err)
			}
		}()
	}

	// Select engine backend based on configuration
	var eng engine.Engine
	switch cfg.EngineMode {
	case "exec":
		execEng, err := engine.NewExecEngine(cfg.EngineCommand)
		if err != nil {
			log.Fatalf("Failed to create exec engine: %v", err)
		}
		eng = execEng
		log.Printf("Using exec engine (%s)", execEng)
	case "http":
		fallthrough
	default:
		eng = engine.NewHTTPEngine(cfg.EngineURL)
		log.Printf("Using http engine (%s)", cfg.EngineURL)
	}

	// Blob storage is optional; without it artifacts stay in the local
	// workspace.
	var blobs artifacts.BlobClient
	storageCfg := artifacts.ClientConfig{
		Endpoint:        cfg.StorageEndpoint,
		Region:          cfg.StorageRegion,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		Bucket:          cfg.StorageBucket,
	}
	if storageCfg.Configured() {
		client, err := artifacts.NewS3Client(ctx, storageCfg)
		if err != nil {
			log.Fatalf("Failed to create blob storage client: %v", err)
		}
		blobs = client
	} else {
		log.Println("Blob storage not configured; artifacts will stay local")
	}

	pipeline := worker.NewPipeline(store, eng, blobs, worker.Config{
		WorkDirRoot:      cfg.WorkDir,
		RunnerScript:     cfg.RunnerScript,
		EngineTimeout:    cfg.EngineTimeout,
		MaxDiagnosticLen: cfg.MaxDiagnosticLen,
		RetainWorkdir:    cfg.RetainWorkdir,
		PollInterval:     cfg.WorkerPollInterval,
	}, slogger)

	agent := worker.NewAgent(store, pipeline, cfg.WorkerPollInterval, slogger)
	go agent.Run(ctx)

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	// Dedicated metrics/health server
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := store.Ping(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		log.Printf("Worker metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()

	<-agent.Done()
}
