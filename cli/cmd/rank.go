package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nathan-Luevano/Sift/cli/output"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

var (
	rankOsintFile   string
	rankContextFile string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank OSINT items by evidentiary relevance",
	Long: `Reads OSINT items (and optionally a forensic context) from JSON files,
filters out low-quality items, and prints the survivors best first.`,
	Example: `  sift rank --osint osint.json
  sift rank --osint osint.json --context context.json -o json`,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringVar(&rankOsintFile, "osint", "", "JSON file with OSINT items (required)")
	rankCmd.Flags().StringVar(&rankContextFile, "context", "", "JSON file with forensic context")
	rankCmd.MarkFlagRequired("osint")
}

func runRank(cmd *cobra.Command, args []string) error {
	var pool []models.OsintItem
	if err := loadJSONFile(rankOsintFile, &pool); err != nil {
		return err
	}

	var fc *models.ForensicContext
	if rankContextFile != "" {
		fc = &models.ForensicContext{}
		if err := loadJSONFile(rankContextFile, fc); err != nil {
			return err
		}
	}

	ctx := context.Background()
	rt, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	items := rt.pipeline.Rank(ctx, pool, fc)

	switch outputFormat {
	case "json":
		return output.JSON(items)
	case "yaml":
		return output.YAML(items)
	default:
		fmt.Printf("Ranked %d of %d items\n\n", len(items), len(pool))
		if len(items) == 0 {
			return nil
		}
		table := output.NewTable("SCORE", "EVIDENCE", "SOURCE", "TITLE", "URL")
		for _, item := range items {
			title := item.Title
			if len(title) > 48 {
				title = title[:45] + "..."
			}
			table.AddRow(fmt.Sprintf("%.1f", item.FinalScore),
				fmt.Sprintf("%.1f", item.EvidenceScore),
				item.Source, title, item.URL)
		}
		table.Render()
		return nil
	}
}
