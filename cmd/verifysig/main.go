package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Smaail0/ocr-extraction-demo/internal/signature"
)

// verifysig scores a cropped signature against a directory (or single file)
// of genuine samples and prints the decision as JSON. Exit code 0 means the
// crop matched a genuine sample, 1 means it did not.
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: verifysig <crop.png> <genuine-dir-or-file>")
		os.Exit(2)
	}
	cropPath, genuinePath := os.Args[1], os.Args[2]

	res, err := signature.Verify(cropPath, genuinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(2)
	}

	out := struct {
		CropPath    string  `json:"cropPath"`
		GenuinePath string  `json:"genuinePath"`
		Score       float64 `json:"score"`
		Threshold   float64 `json:"threshold"`
		Genuine     bool    `json:"genuine"`
	}{cropPath, genuinePath, res.Score, signature.AKAZEThreshold, res.Genuine}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)

	if !res.Genuine {
		os.Exit(1)
	}
}
