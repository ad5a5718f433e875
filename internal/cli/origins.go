package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "origins",
		Short: "List origins with stored history",
		Run:   runOrigins,
	}

	RootCmd.AddCommand(cmd)
}

func runOrigins(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	origins, err := s.ListOrigins(cmd.Context())
	if err != nil {
		exitErr("list origins", err)
	}
	if origins == nil {
		origins = []string{}
	}
	printJSON(cmd.OutOrStdout(), origins)
}
