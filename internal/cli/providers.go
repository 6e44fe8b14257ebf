package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prodscope/prodscope/internal/config"
	"github.com/prodscope/prodscope/pkg/llm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured LLM providers and credential status",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager := llm.NewManager(llm.LoadConfig(cfg.LLMConfigPath, zerolog.Nop()), zerolog.Nop())
	inventory := manager.Providers()

	names := make([]string, 0, len(inventory))
	for name := range inventory {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := inventory[name]
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-16s models: %s\n",
			name, status.Status, strings.Join(status.Models, ", "))
	}
	return nil
}
