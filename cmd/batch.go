package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelfscan/src/core/analysis"
	"shelfscan/src/infrastructure/recognition"
)

var batchOutput string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Analyze every image in a directory",
	Long: `The batch command runs the analysis pipeline over every image file
in a directory and writes the records as a JSON array, to stdout or to the
file given with --output.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write results to this file instead of stdout")

	settingDefaultConfig()
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no image files found in %s", dir)
	}

	engine := recognition.NewTesseractEngine(recognition.TesseractConfig{
		Languages:   viper.GetStringSlice("ocr.languages"),
		TessdataDir: viper.GetString("ocr.tessdata_dir"),
	})
	analyzer := analysis.NewAnalyzer(engine)

	bar := progressbar.Default(int64(len(paths)), "analyzing")
	records := make([]analysis.ProductRecord, 0, len(paths))
	failures := 0
	for _, path := range paths {
		rec := analyzer.AnalyzeFile(context.Background(), path)
		if rec.ErrorMessage != nil {
			failures++
		}
		records = append(records, rec)
		bar.Add(1)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if batchOutput != "" {
		if err := os.WriteFile(batchOutput, out, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Println(string(out))
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d images produced degraded records\n", failures, len(paths))
	}
	return nil
}
