package opts

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EvaluatorLogEvent describes a rule evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Option   string
	Scope    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// logrusEvaluatorLogger is the default: evaluations at debug, failures at
// warn.
type logrusEvaluatorLogger struct {
	log logrus.FieldLogger
}

func (l logrusEvaluatorLogger) LogEvaluation(event EvaluatorLogEvent) {
	entry := l.log.WithFields(logrus.Fields{
		"engine":   event.Engine,
		"expr":     event.Expr,
		"option":   event.Option,
		"scope":    event.Scope,
		"duration": event.Duration,
	})
	if event.Err != nil {
		entry.WithError(event.Err).Warn("rule evaluation failed")
		return
	}
	entry.Debug("rule evaluated")
}

// WithEvaluatorLogger replaces the logger that records rule evaluations. A
// nil logger silences them.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *modelConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}
