package opts

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "value >= 1", "settings", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "value >= 1" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Scope != "settings" {
		t.Fatalf("expected scope metadata, got %q", evalErr.Scope)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "isIP(value)", "override", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "isIP(value)" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Scope != "override" {
		t.Fatalf("scope should be filled, got %q", existing.Scope)
	}
}

func TestEvaluationErrorMessageNamesOption(t *testing.T) {
	err := &EvaluationError{Engine: "cel", Expr: "value > 0", Option: "ProxyPort", Err: errors.New("no such overload")}
	msg := err.Error()
	for _, want := range []string{"cel evaluator", `expr="value > 0"`, "option=ProxyPort", "no such overload"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	if strings.Contains(msg, "scope=") {
		t.Fatalf("blank scope should be omitted: %q", msg)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	prefixed := errors.New("opts: function \"nope\" not registered")
	if got := wrapEvaluatorError("expr", prefixed); got != prefixed {
		t.Fatalf("expected prefixed error returned as-is, got %v", got)
	}
	got := wrapEvaluatorError("js", errors.New("syntax"))
	if got == nil || got.Error() != "opts: js evaluator: syntax" {
		t.Fatalf("unexpected wrapped error %v", got)
	}
	if wrapEvaluatorError("expr", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}
