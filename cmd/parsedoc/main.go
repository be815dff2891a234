package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Smaail0/ocr-extraction-demo/internal/classify"
	"github.com/Smaail0/ocr-extraction-demo/internal/common"
	"github.com/Smaail0/ocr-extraction-demo/internal/docint"
	"github.com/Smaail0/ocr-extraction-demo/internal/formulary"
	"github.com/Smaail0/ocr-extraction-demo/internal/ingest"
	"github.com/Smaail0/ocr-extraction-demo/internal/medmatch"
	"github.com/Smaail0/ocr-extraction-demo/internal/pipeline"
	"github.com/Smaail0/ocr-extraction-demo/internal/prescription"
	repo "github.com/Smaail0/ocr-extraction-demo/internal/repository"
	"github.com/Smaail0/ocr-extraction-demo/internal/signature"
	"github.com/Smaail0/ocr-extraction-demo/internal/utils"
)

// parsedoc ingests one scan and runs the full classify-extract-map
// pipeline synchronously, printing the stored job as JSON.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dump := flag.Bool("dump", false, "print the raw extraction fields and tables as review text")
	flag.Parse()
	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "parsedoc [-dump] <scan.pdf|scan.jpg>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	entc, pool, err := repo.Open(ctx, repo.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
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

	ingestor := ingest.NewFSIngestor(uploadsRepo, logger)
	r, err := ingestor.IngestPath(ctx, path)
	if err != nil {
		logger.Error("ingest failed", "path", path, "error", err)
		os.Exit(1)
	}
	uploadID := uuid.MustParse(r.UploadID)

	start := time.Now()
	jobID, err := processor.ProcessUpload(ctx, uploadID)
	if err != nil {
		logger.Error("pipeline failed", "upload_id", uploadID, "job_id", jobID, "error", err)
		os.Exit(1)
	}
	logger.Info("pipeline done", "upload_id", uploadID, "job_id", jobID,
		"elapsed_ms", time.Since(start).Milliseconds())

	job, err := jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		logger.Error("load job", "job_id", jobID, "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(utils.ToExtractJob(job))

	if *dump && len(job.AnalysisJSON) > 0 {
		var res docint.AnalyzeResult
		if err := json.Unmarshal(job.AnalysisJSON, &res); err != nil {
			logger.Error("decode stored analysis", "job_id", jobID, "error", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, docint.DumpResult(&res, 0.5))
	}
}
