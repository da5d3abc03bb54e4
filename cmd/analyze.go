package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelfscan/src/core/analysis"
	"shelfscan/src/infrastructure/recognition"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze a local shelf image and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	settingDefaultConfig()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	engine := recognition.NewTesseractEngine(recognition.TesseractConfig{
		Languages:   viper.GetStringSlice("ocr.languages"),
		TessdataDir: viper.GetString("ocr.tessdata_dir"),
	})
	analyzer := analysis.NewAnalyzer(engine)

	result := analyzer.AnalyzeShelfFile(context.Background(), args[0])

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
