package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/config"
)

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the merged configuration for the current directory",
		Long: `Shows the configuration that the review commands would use from here,
after merging the global config (~/.config/grove/refactor.yml), the
nearest project refactor.yml, and any override files. With --config the
named file is shown on its own instead. Useful for debugging
configuration issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)

			path, err := cli.InitConfig(opts.ConfigFile)
			if err != nil {
				return err
			}

			var cfg *config.Config
			if opts.ConfigFile != "" {
				cfg, err = config.Load(path)
			} else {
				cwd, cwdErr := os.Getwd()
				if cwdErr != nil {
					return fmt.Errorf("failed to get current directory: %w", cwdErr)
				}
				cfg, err = config.LoadFrom(cwd)
			}
			if err != nil {
				return err
			}

			if path != "" {
				fmt.Printf("# Source: %s\n", path)
			} else {
				fmt.Println("# Source: defaults (no config file found)")
			}

			if opts.JSONOutput {
				data, err := json.MarshalIndent(cfg.Refactor, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			data, err := yaml.Marshal(cfg.Refactor)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	return cmd
}
