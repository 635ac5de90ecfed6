package main

import (
	"os"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/cmd"
	"github.com/grovetools/refactor/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"refactor",
		"Review batch refactors as editable context windows in Neovim",
	)

	info := version.GetInfo()
	rootCmd.Version = info.Version
	cli.SetVersionTemplate(rootCmd, cli.VersionInfo{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		BuildArch: info.Platform,
	})

	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewRenameCmd())
	rootCmd.AddCommand(cmd.NewSearchCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("refactor", cli.VersionInfo{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		BuildArch: info.Platform,
	}))

	cli.ApplyStyledHelpRecursive(rootCmd)
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		cli.PrintError(rootCmd, err)
		os.Exit(1)
	}
}
