package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Show what the assistant knows about a page",
		Long:  "Print the knowledge chunks, contact facts, active intent rules and partner carousels found on a page.",
		Run:   runIndex,
	}

	cmd.Flags().StringP("page", "p", "-", "Page to index (- for stdin)")

	RootCmd.AddCommand(cmd)
}

type carouselSummary struct {
	Label  string            `json:"label"`
	Static bool              `json:"static"`
	Items  []model.MediaItem `json:"items"`
}

type indexReport struct {
	Chunks    []string           `json:"chunks"`
	Contacts  model.ContactFacts `json:"contacts"`
	Rules     []model.IntentRule `json:"rules"`
	Carousels []carouselSummary  `json:"carousels"`
}

func runIndex(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetString("page")

	cfg := loadConfig()
	cfg.Assistant.Enabled = true
	logger := newLogger(cfg)
	defer logger.Sync()

	res := enhancePage(cmd, cfg, nil, logger, page)

	report := indexReport{
		Chunks:    res.Index.Chunks(),
		Contacts:  res.Contacts,
		Rules:     res.Index.Rules(),
		Carousels: []carouselSummary{},
	}
	if report.Chunks == nil {
		report.Chunks = []string{}
	}
	if report.Rules == nil {
		report.Rules = []model.IntentRule{}
	}
	for _, c := range res.Carousels {
		report.Carousels = append(report.Carousels, carouselSummary{Label: c.Label, Static: c.Static, Items: c.Items})
	}
	printJSON(cmd.OutOrStdout(), report)
}
