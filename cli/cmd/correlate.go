package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nathan-Luevano/Sift/cli/output"
	"github.com/Nathan-Luevano/Sift/internal/correlation"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

var (
	correlateEventsFile string
	correlateOsintFile  string
	correlateLocation   string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Correlate forensic events with OSINT data",
	Long: `Reads forensic events and OSINT items from JSON files and reports
the correlations found, strongest first.`,
	Example: `  sift correlate --events events.json --osint osint.json
  sift correlate --events events.json --osint osint.json --location "New York" -o json`,
	RunE: runCorrelate,
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringVar(&correlateEventsFile, "events", "", "JSON file with forensic events (required)")
	correlateCmd.Flags().StringVar(&correlateOsintFile, "osint", "", "JSON file with OSINT items (required)")
	correlateCmd.Flags().StringVar(&correlateLocation, "location", "", "investigation location for spatial scoring")
	correlateCmd.MarkFlagRequired("events")
	correlateCmd.MarkFlagRequired("osint")
}

func loadJSONFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	var events []models.ForensicEvent
	if err := loadJSONFile(correlateEventsFile, &events); err != nil {
		return err
	}
	var pool []models.OsintItem
	if err := loadJSONFile(correlateOsintFile, &pool); err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.engine.Correlate(ctx, events, pool, correlateLocation)
	if err != nil {
		return fmt.Errorf("correlation failed: %w", err)
	}

	report := correlation.BuildReport(result)

	switch outputFormat {
	case "json":
		return output.JSON(map[string]interface{}{
			"correlations":       result.Correlations,
			"skipped_timestamps": result.SkippedTimestamps,
			"report":             report,
			"timeline":           correlation.BuildTimeline(result),
			"patterns":           correlation.AnalyzePatterns(result),
		})
	case "yaml":
		return output.YAML(map[string]interface{}{
			"report":             report,
			"patterns":           correlation.AnalyzePatterns(result),
			"skipped_timestamps": result.SkippedTimestamps,
		})
	default:
		fmt.Println(report.Summary)
		if result.SkippedTimestamps > 0 {
			fmt.Printf("Skipped timestamps: %d\n", result.SkippedTimestamps)
		}
		if len(report.TopCorrelations) == 0 {
			return nil
		}
		fmt.Println()
		table := output.NewTable("FILE", "TIMESTAMP", "STRENGTH", "MATCHES")
		for _, tc := range report.TopCorrelations {
			table.AddRow(tc.ForensicFile, tc.ForensicTimestamp,
				fmt.Sprintf("%.3f", tc.Strength), fmt.Sprintf("%d", tc.OsintMatches))
		}
		table.Render()
		return nil
	}
}
