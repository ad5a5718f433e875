package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Enhance an HTML page",
		Long:  "Read a page, apply every enhancement and write the result. Restored chat history is rendered into the widget.",
		Run:   runEnhance,
	}

	cmd.Flags().StringP("in", "i", "-", "Input page (- for stdin)")
	cmd.Flags().StringP("out", "o", "-", "Output page (- for stdout)")
	cmd.Flags().Bool("reduced-motion", false, "Render static carousels and visible reveal targets")
	cmd.Flags().String("origin", "", "Page origin used to scope chat history")
	cmd.Flags().Bool("no-assistant", false, "Skip the assistant widget")

	RootCmd.AddCommand(cmd)
}

func runEnhance(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	reduced, _ := cmd.Flags().GetBool("reduced-motion")
	origin, _ := cmd.Flags().GetString("origin")
	noAssistant, _ := cmd.Flags().GetBool("no-assistant")

	cfg := loadConfig()
	if reduced {
		cfg.ReducedMotion = true
	}
	if origin != "" {
		cfg.Origin = origin
	}
	if noAssistant {
		cfg.Assistant.Enabled = false
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	s := openStore(cfg)
	defer s.Close()

	res := enhancePage(cmd, cfg, s, logger, in)

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			exitErr("create output", err)
		}
		defer f.Close()
		w = f
	}
	if err := res.Render(w); err != nil {
		exitErr("render", err)
	}

	logger.Debug("page written",
		zap.String("out", out),
		zap.Int("carousels", len(res.Carousels)),
		zap.Int("reveal_targets", res.Reveal.Length()),
	)
}
