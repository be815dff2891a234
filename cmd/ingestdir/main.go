package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Smaail0/ocr-extraction-demo/internal/async"
	"github.com/Smaail0/ocr-extraction-demo/internal/classify"
	"github.com/Smaail0/ocr-extraction-demo/internal/common"
	"github.com/Smaail0/ocr-extraction-demo/internal/docint"
	"github.com/Smaail0/ocr-extraction-demo/internal/formulary"
	"github.com/Smaail0/ocr-extraction-demo/internal/ingest"
	"github.com/Smaail0/ocr-extraction-demo/internal/medmatch"
	"github.com/Smaail0/ocr-extraction-demo/internal/pipeline"
	"github.com/Smaail0/ocr-extraction-demo/internal/prescription"
	repo "github.com/Smaail0/ocr-extraction-demo/internal/repository"
	svcingest "github.com/Smaail0/ocr-extraction-demo/internal/services/ingest"
	"github.com/Smaail0/ocr-extraction-demo/internal/signature"
)

// ingestdir batch-ingests every scan under a directory, queues each one
// through the classify-extract-map pipeline and waits for the queue to
// drain before exiting.
func main() {
	var (
		workers    = flag.Int("workers", 4, "concurrent pipeline workers")
		skipHidden = flag.Bool("skip-hidden", true, "skip dotfiles and hidden directories")
		reprocess  = flag.Bool("reprocess", false, "re-run scans already ingested (matched by content hash)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "ingestdir [flags] <directory>")
		os.Exit(2)
	}
	root := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	entc, pool, err := repo.Open(ctx, repo.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repo.Close(entc, pool, logger)

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
		logger.Error("loading templates", "error", err)
		os.Exit(1)
	}
	defer classifier.Close()

	form, err := formulary.Load(cfg.Formulary.Path, logger)
	if err != nil {
		logger.Error("loading formulary", "path", cfg.Formulary.Path, "error", err)
		os.Exit(1)
	}

	sigSvc := signature.New(signature.Config{
		OutputDir: cfg.Signature.OutputDir,
		Pdftoppm:  cfg.Classifier.Pdftoppm,
		DPI:       cfg.Classifier.DPI,
	}, signature.WithLogger(logger))

	mapper := prescription.NewMapper(
		prescription.WithMatcher(medmatch.NewMatcher(form, logger), cfg.Formulary.MatchThreshold),
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
		async.WithWorkers(*workers),
	)

	svc := svcingest.NewService(ingest.NewFSIngestor(uploadsRepo, logger), queue, logger)

	start := time.Now()
	res, err := svc.IngestDirectory(ctx, svcingest.DirectoryIngestRequest{
		RootPath:       root,
		SkipHidden:     *skipHidden,
		SkipDuplicates: !*reprocess,
	})
	if err != nil {
		logger.Error("directory ingest failed", "root", root, "error", err)
		os.Exit(1)
	}

	// wait for queued pipeline runs to finish
	queue.Shutdown(ctx)

	logger.Info("batch done",
		"root", root,
		"scanned", res.Statistics.Scanned,
		"matched", res.Statistics.Matched,
		"succeeded", res.Statistics.Succeeded,
		"deduplicated", res.Statistics.Deduplicated,
		"failed", res.Statistics.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if res.Statistics.Failed > 0 {
		os.Exit(1)
	}
}
