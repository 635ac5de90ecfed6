package errors

import (
	"fmt"
	"testing"
)

func TestRefactorError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeEmptyEditSet, "edit set contains no edits")
	if err.Code != ErrCodeEmptyEditSet {
		t.Errorf("expected code %s, got %s", ErrCodeEmptyEditSet, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeLineCountUnresolved, "could not resolve line count")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeLineCountUnresolved) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeEmptyEditSet) {
		t.Error("Is should return false for non-matching code")
	}

	// Test WithDetail
	detailed := err.WithDetail("files", 0).WithDetail("source", "rename")
	if detailed.Details["source"] != "rename" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := LineCountUnresolved("/tmp/a.go", fmt.Errorf("permission denied"))
	if err.Code != ErrCodeLineCountUnresolved {
		t.Errorf("expected code %s, got %s", ErrCodeLineCountUnresolved, err.Code)
	}
	if err.Details["file"] != "/tmp/a.go" {
		t.Error("LineCountUnresolved should include file detail")
	}

	refused := ProviderRefused("cannot rename this symbol")
	if refused.Code != ErrCodeProviderRefused {
		t.Errorf("expected code %s, got %s", ErrCodeProviderRefused, refused.Code)
	}
	if refused.Message != "cannot rename this symbol" {
		t.Error("ProviderRefused should carry the refusal reason verbatim")
	}

	unreachable := NvimUnreachable("/tmp/nvim.sock", fmt.Errorf("connection refused"))
	if GetCode(unreachable) != ErrCodeNvimUnreachable {
		t.Error("GetCode should extract the code")
	}
}
