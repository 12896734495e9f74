package opts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewEvaluatorByName constructs the "expr", "cel" or "js" engine wired with
// registry and cache. "js" requires the js_eval build tag.
func NewEvaluatorByName(name string, registry *FunctionRegistry, cache ProgramCache) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "expr":
		return NewExprEvaluator(ExprWithFunctionRegistry(registry), ExprWithProgramCache(cache)), nil
	case "cel":
		return NewCELEvaluator(CELWithFunctionRegistry(registry), CELWithProgramCache(cache)), nil
	case "js":
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)
		}
		return NewJSEvaluator(JSWithFunctionRegistry(registry), JSWithProgramCache(cache)), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrNoEvaluator, name)
	}
}

// Evaluate runs an ad hoc expression against the current effective values,
// exposed as `settings` keyed by persistence key.
func (m *Model) Evaluate(expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("opts: expression must not be empty")
	}
	return m.evaluate(RuleContext{Settings: m.snapshot()}, expr)
}

func (m *Model) evaluate(ctx RuleContext, expr string) (any, error) {
	evaluator, err := m.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx = ctx.withDefaults()
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(evaluatorEngineName(evaluator), expr, ctx.scopeLabel(), evalErr)
	m.cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   evaluatorEngineName(evaluator),
		Expr:     expr,
		Option:   ctx.Option,
		Scope:    ctx.scopeLabel(),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	return value, evalErr
}

// checkRule reports ErrInvalidValue when candidate fails the option's rule.
// Options without a rule accept every value of their kind.
func (m *Model) checkRule(def Definition, candidate Value, scope Scope) error {
	if def.Rule == "" {
		return nil
	}
	result, err := m.evaluate(RuleContext{
		Value:    candidate.Interface(),
		Key:      def.Key,
		Option:   def.Name,
		Settings: m.snapshot(),
		Scope:    scope,
	}, def.Rule)
	if err != nil {
		var evalErr *EvaluationError
		if errors.As(err, &evalErr) && evalErr.Option == "" {
			evalErr.Option = def.Name
		}
		return fmt.Errorf("%w: %s=%s: %w", ErrInvalidValue, def.Name, candidate, err)
	}
	if ok, isBool := result.(bool); !isBool || !ok {
		return fmt.Errorf("%w: %s=%s fails %q", ErrInvalidValue, def.Name, candidate, def.Rule)
	}
	return nil
}

func (m *Model) resolveEvaluator() (Evaluator, error) {
	if m.cfg.evaluator != nil {
		return m.cfg.evaluator, nil
	}
	evaluator, err := NewEvaluatorByName("expr", m.cfg.functions, m.cfg.programCache)
	if err != nil {
		return nil, err
	}
	m.cfg.evaluator = evaluator
	return evaluator, nil
}

func (m *Model) snapshot() map[string]any {
	out := make(map[string]any, len(m.values))
	for i, value := range m.values {
		out[catalogue[i].Key] = value.Interface()
	}
	return out
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*opts.exprEvaluator":
		return "expr"
	case "*opts.celEvaluator":
		return "cel"
	case "*opts.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
