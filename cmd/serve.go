package cmd

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/config"
	"github.com/grovetools/refactor/provider"
)

// NewServeCmd creates the `serve` command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Attach to a running Neovim and serve review sessions",
		Long: `Connects to a Neovim instance and stays attached, serving rename and
search review sessions on demand. Requests arrive over RPC, so Neovim
mappings can drive everything:

  nnoremap <leader>rr :call rpcrequest(g:refactor_channel, 'refactor.rename', input('New name: '))<CR>

Examples:
  # Attach to the Neovim that spawned this terminal
  refactor serve

  # Attach to a specific instance
  refactor serve --addr /tmp/nvim.sock
`,
		RunE: runServeE,
	}

	cmd.Flags().String("addr", "", "Neovim listen address (defaults to $NVIM)")

	return cmd
}

func runServeE(cmd *cobra.Command, args []string) error {
	log := cli.GetLogger(cmd).WithField("component", "refactor-serve")
	handler := newCmdErrorHandler(cmd)

	v, err := dialNvim(cmd)
	if err != nil {
		return handler.Handle(err)
	}
	defer v.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	gate, err := config.NewGate(cwd, log)
	if err != nil {
		return handler.Handle(err)
	}
	defer gate.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		if err := gate.Watch(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("Config watcher stopped")
		}
	}()

	reg := newRegistry(v, gate)
	defer reg.Reset()

	if err := v.RegisterHandler("refactor.rename", func(newName string) error {
		if newName == "" {
			return fmt.Errorf("rename requires a new name")
		}
		prov := provider.LSPRename{
			V:         v,
			NewName:   newName,
			TimeoutMs: gate.Current().Refactor.Timeout(),
		}
		_, err := openReview(ctx, v, gate, reg, prov, log)
		if err != nil {
			log.WithError(err).Error("Rename review failed")
		}
		return err
	}); err != nil {
		return err
	}

	if err := v.RegisterHandler("refactor.search", func(pattern, replacement string) error {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		prov := provider.Search{
			Root:        cwd,
			Pattern:     re,
			Replacement: replacement,
			Excludes:    gate.Current().Refactor.Exclude,
		}
		_, err = openReview(ctx, v, gate, reg, prov, log)
		if err != nil {
			log.WithError(err).Error("Search review failed")
		}
		return err
	}); err != nil {
		return err
	}

	if err := registerSessionHandlers(v, reg, log, false); err != nil {
		return err
	}

	if err := v.Command(fmt.Sprintf("let g:refactor_channel = %d", v.ChannelID())); err != nil {
		return err
	}

	if trigger := gate.Current().Refactor.MenuTrigger; trigger != "" {
		if err := v.Command(menuMapping(trigger, v.ChannelID())); err != nil {
			log.WithError(err).Warn("Failed to install menu trigger mapping")
		}
	}

	log.WithField("channel", v.ChannelID()).Info("Attached to Neovim")
	return v.Serve()
}

// menuMapping builds the normal-mode mapping that prompts for a new
// name and fires a rename review over RPC.
func menuMapping(trigger string, channel int) string {
	return fmt.Sprintf(
		"nnoremap <silent> %s :call rpcrequest(%d, 'refactor.rename', input('New name: '))<CR>",
		trigger, channel,
	)
}
