package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	docspb "github.com/Smaail0/ocr-extraction-demo/gen/proto/docs/v1"
	"github.com/Smaail0/ocr-extraction-demo/internal/async"
	"github.com/Smaail0/ocr-extraction-demo/internal/classify"
	"github.com/Smaail0/ocr-extraction-demo/internal/common"
	"github.com/Smaail0/ocr-extraction-demo/internal/docint"
	"github.com/Smaail0/ocr-extraction-demo/internal/export"
	"github.com/Smaail0/ocr-extraction-demo/internal/formulary"
	"github.com/Smaail0/ocr-extraction-demo/internal/ingest"
	"github.com/Smaail0/ocr-extraction-demo/internal/medmatch"
	"github.com/Smaail0/ocr-extraction-demo/internal/pipeline"
	"github.com/Smaail0/ocr-extraction-demo/internal/prescription"
	repo "github.com/Smaail0/ocr-extraction-demo/internal/repository"
	svc "github.com/Smaail0/ocr-extraction-demo/internal/server"
	"github.com/Smaail0/ocr-extraction-demo/internal/signature"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	addr := cfg.Server.GRPCAddr
	if !strings.HasPrefix(addr, ":") && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entc, pool, err := repo.Open(ctx, repo.Config{
		Driver:           cfg.Database.Driver,
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(entc, pool, logger)

	if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// classifier loads its header templates up front; failing here is fatal
	classifier, err := classify.New(classify.Config{
		PrescriptionHeader: cfg.Classifier.PrescriptionHeader,
		BulletinHeader:     cfg.Classifier.BulletinHeader,
		MinMatches:         cfg.Classifier.MinMatches,
		MinMargin:          cfg.Classifier.MinMargin,
		MaxFeatures:        cfg.Classifier.MaxFeatures,
		Pdftoppm:           cfg.Classifier.Pdftoppm,
		DPI:                cfg.Classifier.DPI,
		FirstPageOnly:      cfg.Classifier.FirstPageOnly,
	}, classify.WithLogger(logger))
	if err != nil {
		logger.Error("failed to load classifier templates", "error", err)
		os.Exit(1)
	}
	defer classifier.Close()

	form, err := formulary.Load(cfg.Formulary.Path, logger)
	if err != nil {
		logger.Error("failed to load formulary", "path", cfg.Formulary.Path, "error", err)
		os.Exit(1)
	}
	matcher := medmatch.NewMatcher(form, logger)

	sigSvc := signature.New(signature.Config{
		OutputDir: cfg.Signature.OutputDir,
		Pdftoppm:  cfg.Classifier.Pdftoppm,
		DPI:       cfg.Classifier.DPI,
	}, signature.WithLogger(logger))

	mapper := prescription.NewMapper(
		prescription.WithMatcher(matcher, cfg.Formulary.MatchThreshold),
		prescription.WithSignatures(sigSvc),
		prescription.WithLogger(logger),
	)

	analyzer := docint.NewClient(docint.Config{
		Endpoint:     cfg.DocIntel.Endpoint,
		APIKey:       cfg.DocIntel.APIKey,
		Timeout:      cfg.DocIntel.Timeout,
		PollInterval: cfg.DocIntel.PollInterval,
	}, logger)

	uploadsRepo := repo.NewUploadRepository(entc, logger)
	jobsRepo := repo.NewExtractJobRepository(entc, logger)
	bulletinsRepo := repo.NewBulletinRepository(entc, logger)
	prescriptionsRepo := repo.NewPrescriptionRepository(entc, logger)

	processor := pipeline.NewProcessor(logger, pipeline.Config{
		BulletinModelID:     cfg.DocIntel.BulletinModelID,
		PrescriptionModelID: cfg.DocIntel.PrescriptionModelID,
	}, classifier, analyzer, mapper, uploadsRepo, jobsRepo, bulletinsRepo, prescriptionsRepo)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(6),
		async.WithQueueSize(512),
		async.WithProcessTimeout(3*time.Minute),
	)

	ingestor := ingest.NewFSIngestor(uploadsRepo, logger)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()

	docsServer := svc.NewDocsServer(ingestor, queue, processor, classifier,
		uploadsRepo, jobsRepo, bulletinsRepo, prescriptionsRepo, logger)
	docspb.RegisterDocsServiceServer(grpcServer, docsServer)

	exportSvc := export.NewService(entc, prescriptionsRepo, uploadsRepo, logger)
	docspb.RegisterExportServiceServer(grpcServer, svc.NewExportServer(exportSvc, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	logger.Info("cnamd listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	queue.Shutdown(context.Background())
	grpcServer.GracefulStop()
}
