// Package provider produces workspace edits from external sources: a
// language server reached through Neovim, or a regex search over the
// working tree. Providers thread a context through every suspension
// point; a cancelled request returns before any session state exists.
package provider

import (
	"context"

	"go.lsp.dev/protocol"
)

// Provider produces a workspace edit describing a proposed refactor.
type Provider interface {
	WorkspaceEdit(ctx context.Context) (*protocol.WorkspaceEdit, error)
}
