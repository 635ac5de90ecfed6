package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/config"
	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/provider"
)

// NewSearchCmd creates the `search` command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search the project and review replacements in context",
		Long: `Walks the working directory matching every text file against a regular
expression and builds an edit set replacing each match. With a Neovim
instance available the edits open in a review buffer; otherwise the
matches are listed on stdout.

Examples:
  # Review replacing a call site across the project
  refactor search 'OldAPI\((\w+)\)' --replace 'NewAPI($1)'

  # Just list matches, no editor
  refactor search 'TODO' --list

  # Skip generated code
  refactor search 'legacyName' --replace 'newName' -x 'vendor/**' -x '*.pb.go'
`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchE,
	}

	cmd.Flags().String("addr", "", "Neovim listen address (defaults to $NVIM)")
	cmd.Flags().StringP("replace", "r", "", "Replacement text ($1 expands capture groups)")
	cmd.Flags().StringSliceP("exclude", "x", []string{}, "Extra exclude patterns (gitignore syntax)")
	cmd.Flags().Bool("list", false, "List matches on stdout instead of opening a review buffer")

	return cmd
}

func runSearchE(cmd *cobra.Command, args []string) error {
	log := cli.GetLogger(cmd).WithField("component", "refactor-search")
	handler := newCmdErrorHandler(cmd)

	re, err := regexp.Compile(args[0])
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	gate, err := config.NewGate(cwd, log)
	if err != nil {
		return handler.Handle(err)
	}
	defer gate.Close()

	replacement, _ := cmd.Flags().GetString("replace")
	extraExcludes, _ := cmd.Flags().GetStringSlice("exclude")
	if replacement == "" {
		replacement = "$0"
	}

	prov := provider.Search{
		Root:        cwd,
		Pattern:     re,
		Replacement: replacement,
		Excludes:    append(gate.Current().Refactor.Exclude, extraExcludes...),
	}

	listOnly, _ := cmd.Flags().GetBool("list")
	if listOnly {
		return listMatches(cmd, prov)
	}

	v, err := dialNvim(cmd)
	if err != nil {
		return handler.Handle(err)
	}
	defer v.Close()

	reg := newRegistry(v, gate)
	defer reg.Dispose()
	if err := registerSessionHandlers(v, reg, log, true); err != nil {
		return err
	}

	if _, err := openReview(cmd.Context(), v, gate, reg, prov, log); err != nil {
		return handler.Handle(err)
	}

	if err := v.Serve(); err != nil {
		log.WithError(err).Debug("RPC loop ended")
	}
	return nil
}

// listMatches prints the edit set without opening an editor.
func listMatches(cmd *cobra.Command, prov provider.Search) error {
	we, err := prov.WorkspaceEdit(cmd.Context())
	if err != nil {
		return err
	}

	grouped := editset.Collect(we)
	keys := make([]uri.URI, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	opts := cli.GetOptions(cmd)
	if opts.JSONOutput {
		out := make(map[string][]map[string]uint32, len(grouped))
		for _, k := range keys {
			var rs []map[string]uint32
			for _, r := range grouped[k] {
				rs = append(rs, map[string]uint32{
					"line":     r.Start.Line,
					"col":      r.Start.Character,
					"end_line": r.End.Line,
					"end_col":  r.End.Character,
				})
			}
			out[k.Filename()] = rs
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, k := range keys {
		for _, r := range grouped[k] {
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n", k.Filename(), r.Start.Line+1, r.Start.Character+1)
		}
	}
	return nil
}
