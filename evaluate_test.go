package opts

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCatalogueRulesAcrossEngines(t *testing.T) {
	cases := []struct {
		rule  string
		value any
		want  bool
	}{
		{"isIP(value)", "127.0.0.1", true},
		{"isIP(value)", "2001:db8::1", true},
		{"isIP(value)", "proxy.local", false},
		{"value >= 1 && value <= 65535", 9050, true},
		{"value >= 1 && value <= 65535", 0, false},
		{"value >= 4 && value <= 16384", 450, true},
		{"urlTemplates(value)", "", true},
		{"urlTemplates(value)", "https://a.example/tx/%s | https://b.example/%s", true},
		{"urlTemplates(value)", "https://a.example/tx/", false},
		{"urlTemplates(value)", "/relative/%s", false},
	}

	for _, engine := range []string{"expr", "cel"} {
		evaluator, err := NewEvaluatorByName(engine, DefaultFunctions(), NewProgramCache())
		if err != nil {
			t.Fatalf("%s: %v", engine, err)
		}
		for _, tc := range cases {
			got, err := evaluator.Evaluate(RuleContext{Value: tc.value, Scope: ScopeSettings}, tc.rule)
			if err != nil {
				t.Fatalf("%s %q with %v: %v", engine, tc.rule, tc.value, err)
			}
			if got != tc.want {
				t.Fatalf("%s %q with %v = %v, want %v", engine, tc.rule, tc.value, got, tc.want)
			}
		}
	}
}

func TestNewEvaluatorByNameRejectsUnknownEngine(t *testing.T) {
	if _, err := NewEvaluatorByName("lua", nil, nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
	evaluator, err := NewEvaluatorByName(" EXPR ", nil, nil)
	if err != nil || evaluatorEngineName(evaluator) != "expr" {
		t.Fatalf("expected expr evaluator, got %T %v", evaluator, err)
	}
}

func TestCompiledRuleIsCached(t *testing.T) {
	cache := NewProgramCache()
	evaluator := NewExprEvaluator(ExprWithProgramCache(cache))

	rule, err := evaluator.Compile("value > 2")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := cache.Get("expr:value > 2"); !ok {
		t.Fatalf("expected compiled program in cache")
	}
	for value, want := range map[int]bool{1: false, 3: true} {
		got, err := rule.Evaluate(RuleContext{Value: value})
		if err != nil || got != want {
			t.Fatalf("rule with %d = %v (%v), want %v", value, got, err, want)
		}
	}
}

func TestEvaluatorCompileErrors(t *testing.T) {
	for _, evaluator := range []Evaluator{NewExprEvaluator(), NewCELEvaluator()} {
		engine := evaluatorEngineName(evaluator)
		_, err := evaluator.Compile("value >=")
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) || evalErr.Engine != engine {
			t.Fatalf("%s: expected EvaluationError, got %v", engine, err)
		}
		if _, err := evaluator.Evaluate(RuleContext{}, ""); err == nil {
			t.Fatalf("%s: expected error for empty expression", engine)
		}
	}
}

func TestModelWithCELEvaluator(t *testing.T) {
	ctx := context.Background()
	m := initModel(t, nil, WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(DefaultFunctions()))))

	if err := m.Set(ctx, ProxyIP, "bad address"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected invalid value, got %v", err)
	}
	if err := m.Set(ctx, ProxyPort, 8333); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := m.Evaluate("settings.nProxyPort == 8333 && settings.fListen")
	if err != nil || got != true {
		t.Fatalf("evaluate: %v (%v)", got, err)
	}
}

func TestModelEvaluateSeesSettings(t *testing.T) {
	m := initModel(t, nil, WithCustomFunction("even", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("even expects 1 argument")
		}
		n, ok := args[0].(int)
		return ok && n%2 == 0, nil
	}))

	got, err := m.Evaluate("even(settings.nDatabaseCache) && settings.theme == 'light'")
	if err != nil || got != true {
		t.Fatalf("evaluate: %v (%v)", got, err)
	}
	if _, err := m.Evaluate(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

type failingEvaluator struct{ err error }

func (e failingEvaluator) Evaluate(RuleContext, string) (any, error) { return nil, e.err }
func (e failingEvaluator) Compile(string) (CompiledRule, error)      { return nil, e.err }

func TestRuleErrorsCarryOption(t *testing.T) {
	boom := errors.New("engine offline")
	var events []EvaluatorLogEvent
	m := New(nil,
		WithEvaluator(failingEvaluator{err: boom}),
		WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
			events = append(events, event)
		})),
	)

	err := m.Set(context.Background(), ProxyPort, 1080)
	if !errors.Is(err, ErrInvalidValue) || !errors.Is(err, boom) {
		t.Fatalf("expected invalid value wrapping the engine error, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "custom" || evalErr.Option != "ProxyPort" || evalErr.Scope != "settings" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if len(events) != 1 || events[0].Option != "ProxyPort" || events[0].Err == nil {
		t.Fatalf("expected one failed evaluation logged, got %+v", events)
	}
	if m.Get(ProxyPort) != Int(DefaultProxyPort) {
		t.Fatalf("value must not change when the rule cannot run")
	}
}

func TestDefaultFunctionsValidateArguments(t *testing.T) {
	registry := DefaultFunctions()
	if _, err := registry.Call("isIP"); err == nil {
		t.Fatalf("expected arity error")
	}
	if _, err := registry.Call("missing", "x"); err == nil {
		t.Fatalf("expected unknown function error")
	}
	if err := registry.Register("isIP", isIP); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if names := registry.Names(); len(names) != 2 || names[0] != "isIP" || names[1] != "urlTemplates" {
		t.Fatalf("unexpected names %v", names)
	}
}
