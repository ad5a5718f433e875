package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/page-enhancer/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long:  "Write the default configuration to --config (default ~/.page-enhancer/config.yaml).",
		Run:   runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after the file and PAGE_ENHANCER_* overrides are applied.",
		Run:   runConfigShow,
	}

	configCmd.AddCommand(initCmd, showCmd)
	RootCmd.AddCommand(configCmd)
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(homeDir(), "config.yaml")
}

func runConfigInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")
	path := configFile()

	if err := writeDefaultConfig(path, force); err != nil {
		exitErr("config init", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", path)
}

// writeDefaultConfig saves DefaultConfig to path, refusing to replace an
// existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return config.DefaultConfig().Save(path)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	data, err := cfg.YAML()
	if err != nil {
		exitErr("config show", err)
	}
	cmd.OutOrStdout().Write(data)
}
