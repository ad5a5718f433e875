package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/model"
	"github.com/rcliao/page-enhancer/internal/store"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Chat history management",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored conversation of an origin",
		Run:   runHistoryShow,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored conversation of an origin",
		Run:   runHistoryClear,
	}
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored entries as JSON",
		Long:  "Export every stored entry as JSON. Filter by origin with --origin.",
		Run:   runHistoryExport,
	}
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import entries from JSON on stdin",
		Long:  "Import entries from JSON on stdin. Expects the format produced by export.",
		Run:   runHistoryImport,
	}

	for _, c := range []*cobra.Command{showCmd, clearCmd, exportCmd} {
		c.Flags().String("origin", "", "Page origin (default: origin from config)")
	}

	historyCmd.AddCommand(showCmd, clearCmd, exportCmd, importCmd)
	RootCmd.AddCommand(historyCmd)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	origin, _ := cmd.Flags().GetString("origin")
	cfg := loadConfig()
	if origin == "" {
		origin = cfg.Origin
	}

	s := openStore(cfg)
	defer s.Close()

	raw, err := s.Get(cmd.Context(), origin, cfg.Assistant.StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return
	}
	if err != nil {
		exitErr("get history", err)
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		exitErr("parse history", err)
	}

	if formatFlag == "text" {
		for _, m := range msgs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s> %s\n", m.Role, m.Text)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), msgs)
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	origin, _ := cmd.Flags().GetString("origin")
	cfg := loadConfig()
	if origin == "" {
		origin = cfg.Origin
	}

	s := openStore(cfg)
	defer s.Close()

	if err := s.Delete(cmd.Context(), origin, cfg.Assistant.StorageKey); err != nil {
		exitErr("clear history", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"origin":%q}`+"\n", origin)
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	origin, _ := cmd.Flags().GetString("origin")
	cfg := loadConfig()

	s := openStore(cfg)
	defer s.Close()

	entries, err := s.ExportAll(cmd.Context(), origin)
	if err != nil {
		exitErr("export", err)
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	printJSON(cmd.OutOrStdout(), entries)
}

func runHistoryImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		exitErr("read stdin", err)
	}

	var entries []store.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		exitErr("parse json", err)
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	imported, err := s.Import(cmd.Context(), entries)
	if err != nil {
		exitErr("import", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
}
