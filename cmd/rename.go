package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/config"
	"github.com/grovetools/refactor/provider"
)

// NewRenameCmd creates the `rename` command.
func NewRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <new-name>",
		Short: "Rename the symbol under the cursor and review the edits",
		Long: `Asks the language server attached to the current Neovim buffer for a
rename edit set, then opens a review buffer showing every affected
location in context. Write the buffer to apply the edits.

Examples:
  # Rename the symbol under the cursor
  refactor rename NewName

  # Against a specific Neovim instance
  refactor rename NewName --addr /tmp/nvim.sock
`,
		Args: cobra.ExactArgs(1),
		RunE: runRenameE,
	}

	cmd.Flags().String("addr", "", "Neovim listen address (defaults to $NVIM)")

	return cmd
}

func runRenameE(cmd *cobra.Command, args []string) error {
	log := cli.GetLogger(cmd).WithField("component", "refactor-rename")
	handler := newCmdErrorHandler(cmd)

	newName := args[0]
	if newName == "" {
		return fmt.Errorf("rename requires a non-empty new name")
	}

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

	prov := provider.LSPRename{
		V:         v,
		NewName:   newName,
		TimeoutMs: gate.Current().Refactor.Timeout(),
	}

	reg := newRegistry(v, gate)
	defer reg.Dispose()
	if err := registerSessionHandlers(v, reg, log, true); err != nil {
		return err
	}

	if _, err := openReview(cmd.Context(), v, gate, reg, prov, log); err != nil {
		return handler.Handle(err)
	}

	// Stay attached until the review buffer closes so write and change
	// notifications have a listener.
	if err := v.Serve(); err != nil {
		log.WithError(err).Debug("RPC loop ended")
	}
	return nil
}
