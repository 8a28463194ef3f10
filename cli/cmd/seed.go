package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

var (
	seedCount      int
	seedEventsFile string
	seedOsintFile  string
	seedSeed       int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample forensic events and OSINT items",
	Long: `Writes JSON files with generated forensic events and OSINT items for
trying out the correlate and rank commands without real data.`,
	Example: `  sift seed --count 50
  sift seed --count 20 --events demo-events.json --osint demo-osint.json`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 25, "number of OSINT items to generate")
	seedCmd.Flags().StringVar(&seedEventsFile, "events", "events.json", "output file for forensic events")
	seedCmd.Flags().StringVar(&seedOsintFile, "osint", "osint.json", "output file for OSINT items")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (0 = random)")
}

var seedFileNames = []string{
	"invoice_update.exe", "payload.dll", "dropper.bat", "stealer.ps1",
	"update_checker.exe", "svchost_helper.exe", "collector.vbs", "loader.jar",
}

var seedEventTypes = []string{"file_creation", "file_modification", "network_connection", "process_execution"}

var seedSources = []string{"twitter", "reddit", "news", "pastebin", "blog"}

func runSeed(cmd *cobra.Command, args []string) error {
	faker := gofakeit.New(seedSeed)
	base := time.Now().Add(-48 * time.Hour).Truncate(time.Hour)

	eventCount := seedCount / 5
	if eventCount < 3 {
		eventCount = 3
	}

	events := make([]models.ForensicEvent, 0, eventCount)
	for i := 0; i < eventCount; i++ {
		name := seedFileNames[faker.Number(0, len(seedFileNames)-1)]
		events = append(events, models.ForensicEvent{
			Timestamp: models.NewFlexTime(base.Add(time.Duration(faker.Number(0, 36)) * time.Hour)),
			EventType: seedEventTypes[faker.Number(0, len(seedEventTypes)-1)],
			FilePath:  fmt.Sprintf(`C:\Users\%s\AppData\Roaming\Temp\%s`, faker.Username(), name),
			FileType:  "executable",
			FileSize:  int64(faker.Number(10_000, 5_000_000)),
		})
	}

	items := make([]models.OsintItem, 0, seedCount)
	for i := 0; i < seedCount; i++ {
		var content string
		if faker.Bool() {
			// Items that reference a dropped file correlate strongly.
			name := events[faker.Number(0, len(events)-1)].FileName()
			content = fmt.Sprintf(
				"Security researchers observed a new malware campaign dropping %s on compromised hosts. "+
					"The trojan establishes persistence and exfiltrates credentials. %s",
				name, faker.Paragraph(2, 4, 12, " "))
		} else {
			content = faker.Paragraph(2, 5, 14, " ")
		}
		items = append(items, models.OsintItem{
			Timestamp: models.NewFlexTime(base.Add(time.Duration(faker.Number(-12, 48)) * time.Hour)),
			Source:    seedSources[faker.Number(0, len(seedSources)-1)],
			Title:     faker.Sentence(6),
			Content:   content,
			URL:       faker.URL(),
			Engagement: &models.Engagement{
				Likes:  faker.Number(0, 5000),
				Shares: faker.Number(0, 800),
			},
		})
	}

	if err := writeJSONFile(seedEventsFile, events); err != nil {
		return err
	}
	if err := writeJSONFile(seedOsintFile, items); err != nil {
		return err
	}

	fmt.Printf("Wrote %d events to %s and %d items to %s\n",
		len(events), seedEventsFile, len(items), seedOsintFile)
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
