package opts

import (
	"io"
	"time"

	"github.com/imchaeyun/wallet-options/pkg/activity"
	"github.com/sirupsen/logrus"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened option descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Document must be JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms the option catalogue into a schema document.
// Implementations must be safe for concurrent use.
type SchemaGenerator interface {
	Generate(defs []Definition) (SchemaDocument, error)
}

// RuleContext carries the inputs of one rule evaluation. Rules see the
// candidate as `value`, the persistence key as `key`, the option name as
// `option`, the other effective values (keyed by persistence key) as
// `settings`, the layer the candidate came from as `scope` and the
// evaluation time as `now`.
type RuleContext struct {
	Value    any
	Key      string
	Option   string
	Settings map[string]any
	Scope    Scope
	Now      *time.Time
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Settings == nil {
		ctx.Settings = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx RuleContext) scopeLabel() string {
	if ctx.Scope.Name != "" {
		return ctx.Scope.Name
	}
	return "unknown"
}

// bindings returns the variables exposed to every engine.
func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"value":    ctx.Value,
		"key":      ctx.Key,
		"option":   ctx.Option,
		"settings": ctx.Settings,
		"scope":    ctx.scopeLabel(),
		"now":      *ctx.Now,
	}
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// Option configures a Model.
type Option func(*modelConfig)

type modelConfig struct {
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	logger          logrus.FieldLogger
	evalLogger      EvaluatorLogger
	schemaGenerator SchemaGenerator
	overrides       OverrideSource
	activityHooks   activity.Hooks
	activity        activity.Config
	actorID         string
	migrations      []MigrationStep
}

func applyOptions(opts []Option) modelConfig {
	cfg := modelConfig{
		activity:   activity.Config{Enabled: true, Channel: "settings"},
		migrations: DefaultMigrations(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = logrusEvaluatorLogger{log: cfg.logger}
	}
	if cfg.functions == nil {
		cfg.functions = DefaultFunctions()
	}
	if cfg.programCache == nil {
		cfg.programCache = NewProgramCache()
	}
	if cfg.schemaGenerator == nil {
		cfg.schemaGenerator = DefaultSchemaGenerator()
	}
	return cfg
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithEvaluator configures the rule evaluator. The default is the expr
// evaluator wired with the model's function registry and program cache.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *modelConfig) {
		cfg.evaluator = e
	}
}

// WithLogger configures the structured logger. Output is discarded by default.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *modelConfig) {
		cfg.logger = log
	}
}

// WithOverrides configures the external source consulted at Init for
// per-run overrides.
func WithOverrides(source OverrideSource) Option {
	return func(cfg *modelConfig) {
		cfg.overrides = source
	}
}

// WithMigrations replaces the migration history. Steps must be sorted by
// ascending version.
func WithMigrations(steps ...MigrationStep) Option {
	return func(cfg *modelConfig) {
		cfg.migrations = append([]MigrationStep(nil), steps...)
	}
}

// WithActivityConfig controls whether and on which channel setting changes
// are emitted to activity hooks.
func WithActivityConfig(c activity.Config) Option {
	return func(cfg *modelConfig) {
		cfg.activity = c
	}
}

// WithActor tags emitted activity events with the acting user or device id.
func WithActor(id string) Option {
	return func(cfg *modelConfig) {
		cfg.actorID = id
	}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *modelConfig) {
		cfg.schemaGenerator = generator
	}
}
