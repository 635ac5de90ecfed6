package provider

import (
	"context"
	"encoding/json"

	"github.com/neovim/go-client/nvim"
	"go.lsp.dev/protocol"

	"github.com/grovetools/refactor/errors"
)

// renameLua asks the language servers attached to the current buffer for
// a rename edit. The result comes back JSON-encoded so the Go side can
// decode it with the standard LSP field names.
const renameLua = `
local new_name, timeout = ...
local params = vim.lsp.util.make_position_params()
params.newName = new_name
local results, err = vim.lsp.buf_request_sync(0, "textDocument/rename", params, timeout)
if err then
  return { err = tostring(err) }
end
for _, res in pairs(results or {}) do
  if res.error then
    return { err = res.error.message }
  end
  if res.result then
    return { edit = vim.json.encode(res.result) }
  end
end
return { err = "no language server produced an edit" }
`

// LSPRename requests a rename edit-set for the symbol under the cursor
// from the language servers attached in a running Neovim instance.
type LSPRename struct {
	V         *nvim.Nvim
	NewName   string
	TimeoutMs int
}

func (p LSPRename) WorkspaceEdit(ctx context.Context) (*protocol.WorkspaceEdit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := p.V.ExecLua(renameLua, &result, p.NewName, p.TimeoutMs); err != nil {
		return nil, errors.ProviderFailed("rename", err)
	}

	// The Lua round-trip is a suspension point; the caller may have
	// cancelled while it ran.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if msg, ok := result["err"].(string); ok && msg != "" {
		return nil, errors.ProviderRefused(msg)
	}

	encoded, ok := result["edit"].(string)
	if !ok || encoded == "" {
		return nil, errors.ProviderRefused("language server returned an empty rename result")
	}

	var we protocol.WorkspaceEdit
	if err := json.Unmarshal([]byte(encoded), &we); err != nil {
		return nil, errors.ProviderFailed("rename", err)
	}
	return &we, nil
}
