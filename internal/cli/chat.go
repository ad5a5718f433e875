package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/assistant"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a page",
		Long: "Interactive assistant over a page. History is kept per origin in the database.\n" +
			"Commands: /chips, /chip N, /history, /quit.",
		Run: runChat,
	}

	cmd.Flags().StringP("page", "p", "", "Page to chat with (required)")
	cmd.Flags().String("origin", "", "Page origin used to scope chat history")
	cmd.MarkFlagRequired("page")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetString("page")
	origin, _ := cmd.Flags().GetString("origin")

	cfg := loadConfig()
	cfg.Assistant.Enabled = true
	if origin != "" {
		cfg.Origin = origin
	}
	logger := newLogger(cfg)
	defer logger.Sync()

	s := openStore(cfg)
	defer s.Close()

	res := enhancePage(cmd, cfg, s, logger, page)
	if err := chatLoop(cmd.Context(), res.Session, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		exitErr("chat", err)
	}
}

// chatLoop reads questions line by line until EOF or /quit.
func chatLoop(ctx context.Context, session *assistant.Session, in io.Reader, out io.Writer) error {
	session.Open()
	defer session.Close()

	for _, m := range session.History() {
		fmt.Fprintf(out, "%s> %s\n", m.Role, m.Text)
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "/quit":
			return nil
		case line == "/chips":
			for i, c := range session.Chips() {
				fmt.Fprintf(out, "[%d] %s\n", i, c)
			}
		case strings.HasPrefix(line, "/chip "):
			i, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/chip ")))
			if err != nil {
				fmt.Fprintln(out, "usage: /chip N")
				continue
			}
			if reply, ok := session.ChooseChip(ctx, i); ok {
				fmt.Fprintf(out, "bot> %s\n", reply.Text)
			}
		case line == "/history":
			for _, m := range session.History() {
				fmt.Fprintf(out, "%s> %s\n", m.Role, m.Text)
			}
		default:
			if reply, ok := session.Submit(ctx, line); ok {
				fmt.Fprintf(out, "bot> %s\n", reply.Text)
			}
		}
	}
	return sc.Err()
}
