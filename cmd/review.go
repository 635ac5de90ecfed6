package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/neovim/go-client/nvim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/refactor/cli"
	"github.com/grovetools/refactor/config"
	"github.com/grovetools/refactor/editset"
	"github.com/grovetools/refactor/errors"
	"github.com/grovetools/refactor/preview"
	"github.com/grovetools/refactor/provider"
	"github.com/grovetools/refactor/session"
)

// newCmdErrorHandler builds an error handler honoring the --verbose flag.
func newCmdErrorHandler(cmd *cobra.Command) *cli.ErrorHandler {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return cli.NewErrorHandler(verbose)
}

// dialNvim connects to a running Neovim instance. The address comes
// from --addr, falling back to $NVIM (set inside :terminal).
func dialNvim(cmd *cobra.Command) (*nvim.Nvim, error) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = os.Getenv("NVIM")
	}
	if addr == "" {
		return nil, errors.NvimUnreachable("", fmt.Errorf("no address: set --addr or run inside :terminal"))
	}

	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, errors.NvimUnreachable(addr, err)
	}
	return v, nil
}

// newRegistry builds the session registry whose factory opens scratch
// review buffers in the connected Neovim instance.
func newRegistry(v *nvim.Nvim, gate *config.Gate) *session.Registry {
	return session.NewRegistry(func(opts session.Options) (session.BufferSession, error) {
		ss, err := preview.NewScratchSession(v, opts, gate.Current().Refactor)
		if err != nil {
			return nil, err
		}
		return ss, nil
	})
}

// openReview runs a provider, folds its edit set into context windows,
// and opens a review session for them. Returns the session so callers
// can wire editor notifications to it.
func openReview(ctx context.Context, v *nvim.Nvim, gate *config.Gate, reg *session.Registry, prov provider.Provider, log *logrus.Entry) (*session.Session, error) {
	cfg := gate.Current().Refactor

	we, err := prov.WorkspaceEdit(ctx)
	if err != nil {
		return nil, err
	}

	resolver := editset.ChainResolver{
		editset.BufferResolver{V: v},
		editset.FileResolver{},
	}
	items, err := editset.BuildFileItems(we, resolver, cfg.Before(), cfg.After())
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.EmptyEditSet()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	win, err := v.CurrentWindow()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNvimUnreachable, "failed to query current window")
	}

	s, err := reg.Open(session.Options{
		OriginWindow:     int(win),
		WorkingDirectory: cwd,
	})
	if err != nil {
		return nil, err
	}
	if err := reg.AttachFileItems(s, items); err != nil {
		reg.OnUnload(s.Key)
		return nil, err
	}

	wireAutocmds(v, s, log)

	log.WithFields(logrus.Fields{
		"session": s.Key,
		"files":   len(items),
	}).Info("Review session opened")
	return s, nil
}

// registerSessionHandlers installs the RPC handlers that route scratch
// buffer lifecycle events to the registry. With exitWhenEmpty set, the
// connection is closed once the last session unloads, which unblocks
// Serve in one-shot commands.
func registerSessionHandlers(v *nvim.Nvim, reg *session.Registry, log *logrus.Entry, exitWhenEmpty bool) error {
	if err := v.RegisterHandler("refactor.save", func(key int) error {
		s, ok := reg.Get(key)
		if !ok {
			return nil
		}
		saved, err := s.Save()
		if err != nil {
			log.WithError(err).WithField("session", key).Error("Save failed")
			return err
		}
		if saved {
			log.WithField("session", key).Info("Edits written to disk")
		}
		return nil
	}); err != nil {
		return err
	}

	if err := v.RegisterHandler("refactor.changed", func(key, firstLine, lastLine int) {
		reg.OnDocumentChanged(key, session.ChangeEvent{FirstLine: firstLine, LastLine: lastLine})
	}); err != nil {
		return err
	}

	return v.RegisterHandler("refactor.unload", func(key int) {
		reg.OnUnload(key)
		if exitWhenEmpty && reg.Len() == 0 {
			v.Close()
		}
	})
}

// wireAutocmds routes buffer lifecycle events for a scratch session
// back to this process over rpcnotify.
func wireAutocmds(v *nvim.Nvim, s *session.Session, log *logrus.Entry) {
	ss, ok := s.Buffer().(*preview.ScratchSession)
	if !ok {
		return
	}
	buf := int(ss.Buffer())
	ch := v.ChannelID()

	cmds := []string{
		fmt.Sprintf("autocmd BufWriteCmd <buffer=%d> call rpcrequest(%d, 'refactor.save', %d)", buf, ch, s.Key),
		fmt.Sprintf("autocmd TextChanged,TextChangedI <buffer=%d> call rpcnotify(%d, 'refactor.changed', %d, 1, line('$'))", buf, ch, s.Key),
		fmt.Sprintf("autocmd BufUnload <buffer=%d> call rpcnotify(%d, 'refactor.unload', %d)", buf, ch, s.Key),
	}
	for _, c := range cmds {
		if err := v.Command(c); err != nil {
			log.WithError(err).Warn("Failed to register buffer autocmd")
		}
	}
}
