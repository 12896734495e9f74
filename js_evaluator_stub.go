//go:build !js_eval

package opts

// NewJSEvaluator returns nil unless the module is built with the js_eval tag.
// Models given a nil evaluator fall back to expr.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
