package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/refactor/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create a refactor.yml in your project root.\n")
		return err

	case errors.ErrCodeEmptyEditSet:
		fmt.Fprintf(os.Stderr, "❌ The operation produced no edits; nothing to review.\n")
		return err

	case errors.ErrCodeNvimUnreachable:
		fmt.Fprintf(os.Stderr, "❌ Could not reach Neovim. Run this inside :terminal or pass --addr.\n")
		return err

	case errors.ErrCodeProviderRefused:
		if rerr, ok := err.(*errors.RefactorError); ok {
			fmt.Fprintf(os.Stderr, "❌ The language server refused the request: %v\n", rerr.Details["reason"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ The language server refused the request.\n")
		}
		return err

	case errors.ErrCodeLineCountUnresolved:
		if rerr, ok := err.(*errors.RefactorError); ok {
			fmt.Fprintf(os.Stderr, "❌ Could not determine the length of %v\n", rerr.Details["path"])
			fmt.Fprintf(os.Stderr, "The file may have been deleted while the edit set was being built.\n")
		}
		return err

	case errors.ErrCodeSaveFailed:
		if rerr, ok := err.(*errors.RefactorError); ok {
			fmt.Fprintf(os.Stderr, "❌ Failed to write %v\n", rerr.Details["path"])
			fmt.Fprintf(os.Stderr, "Check file permissions; the review buffer is still open.\n")
		}
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if rerr, ok := err.(*errors.RefactorError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", rerr.ToJSON())
			}
		}
		return err
	}
}
