package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/retrieval"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a page a question",
		Long:  "Answer one question from a page's contact facts and text. History is not recorded; use chat for that.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	cmd.Flags().StringP("page", "p", "-", "Page to answer from (- for stdin)")
	cmd.Flags().IntP("limit", "l", 5, "Max ranked chunks to show")

	RootCmd.AddCommand(cmd)
}

type askResult struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Intent   string             `json:"intent,omitempty"`
	Ranked   []retrieval.Ranked `json:"ranked"`
}

func runAsk(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetString("page")
	limit, _ := cmd.Flags().GetInt("limit")
	question := strings.Join(args, " ")

	cfg := loadConfig()
	cfg.Assistant.Enabled = true
	logger := newLogger(cfg)
	defer logger.Sync()

	res := enhancePage(cmd, cfg, nil, logger, page)

	if formatFlag == "text" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Index.Answer(question))
		return
	}

	out := askResult{Question: question, Answer: res.Index.Answer(question), Ranked: []retrieval.Ranked{}}
	if rule, ok := res.Index.MatchIntent(question); ok {
		out.Intent = rule.Exemplar
	}
	ranked := retrieval.New(res.Chunks, retrieval.Options{TopK: limit}, logger).Rank(question)
	if ranked != nil {
		out.Ranked = ranked
	}
	printJSON(cmd.OutOrStdout(), out)
}
