package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Smaail0/ocr-extraction-demo/constants"
	"github.com/Smaail0/ocr-extraction-demo/internal/classify"
	"github.com/Smaail0/ocr-extraction-demo/internal/common"
)

// classify runs the local template matcher over one or more scans and
// prints one JSON line per file. No extraction call is made.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: classify <scan.pdf|scan.jpg> [...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
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
		fmt.Fprintf(os.Stderr, "loading templates: %v\n", err)
		os.Exit(1)
	}
	defer classifier.Close()

	type line struct {
		Path                string `json:"path"`
		FormType            string `json:"formType"`
		PrescriptionMatches int    `json:"prescriptionMatches"`
		BulletinMatches     int    `json:"bulletinMatches"`
		Pages               int    `json:"pages"`
		Err                 string `json:"error,omitempty"`
	}

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, path := range os.Args[1:] {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		res, err := classifier.Classify(ctx, path)
		cancel()

		out := line{
			Path:                path,
			FormType:            string(res.Form),
			PrescriptionMatches: res.Scores[constants.FormPrescription],
			BulletinMatches:     res.Scores[constants.FormBulletin],
			Pages:               res.Pages,
		}
		if err != nil {
			out.Err = err.Error()
			failed++
		}
		_ = enc.Encode(out)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
