package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *RefactorError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *RefactorError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// EmptyEditSet creates an error for an edit-set with no usable entries.
// Callers that treat "nothing to do" as a skip should check the code
// rather than surfacing the message.
func EmptyEditSet() *RefactorError {
	return New(ErrCodeEmptyEditSet, "edit set contains no edits")
}

// LineCountUnresolved creates an error for a file whose line count could
// not be established.
func LineCountUnresolved(file string, err error) *RefactorError {
	return Wrap(err, ErrCodeLineCountUnresolved,
		fmt.Sprintf("could not resolve line count for %s", file)).
		WithDetail("file", file)
}

// ProviderRefused creates an error for a provider that explicitly
// declined the request (e.g. "cannot rename this symbol").
func ProviderRefused(reason string) *RefactorError {
	return New(ErrCodeProviderRefused, reason)
}

// ProviderFailed creates an error for a provider request that failed.
func ProviderFailed(provider string, err error) *RefactorError {
	return Wrap(err, ErrCodeProviderFailed,
		fmt.Sprintf("%s provider request failed", provider)).
		WithDetail("provider", provider)
}

// NvimUnreachable creates an error for a failed Neovim connection.
func NvimUnreachable(addr string, err error) *RefactorError {
	return Wrap(err, ErrCodeNvimUnreachable,
		fmt.Sprintf("could not connect to Neovim at %q", addr)).
		WithDetail("address", addr)
}

// RenderFailed creates an error for a scratch buffer rendering failure.
func RenderFailed(err error) *RefactorError {
	return Wrap(err, ErrCodeRenderFailed, "failed to render review buffer")
}

// SaveFailed creates an error for a write-back failure.
func SaveFailed(path string, err error) *RefactorError {
	return Wrap(err, ErrCodeSaveFailed,
		fmt.Sprintf("failed to write edits back to %s", path)).
		WithDetail("path", path)
}
