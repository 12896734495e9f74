package main

import (
	"context"
	"fmt"
	"strings"

	opts "github.com/imchaeyun/wallet-options"
	"github.com/imchaeyun/wallet-options/pkg/activity"
	"github.com/imchaeyun/wallet-options/pkg/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "wallet"

// cli carries the global flags shared by every subcommand.
type cli struct {
	log          *logrus.Logger
	settingsPath string
	reset        bool
	engine       string
	actor        string
	debug        bool
	nodeFlags    *pflag.FlagSet
	env          *viper.Viper
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	c := &cli{log: log, env: viper.New()}
	c.env.SetEnvPrefix(envPrefix)

	cmd := &cobra.Command{
		Use:           "walletopts",
		Short:         "Inspect and edit wallet settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.debug {
				c.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.settingsPath, "settings", "", "settings file (.yaml, .toml or .json); defaults to the XDG config dir")
	flags.BoolVar(&c.reset, "reset", false, "clear all saved settings before loading")
	flags.StringVar(&c.engine, "engine", "expr", "rule engine: expr, cel or js")
	flags.StringVar(&c.actor, "actor", "", "actor id recorded on settings activity")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")
	c.nodeFlags = flags
	c.registerOverrideFlags(flags)

	cmd.AddCommand(
		newListCmd(c),
		newGetCmd(c),
		newSetCmd(c),
		newResetCmd(c),
		newTraceCmd(c),
		newEvalCmd(c),
		newExportCmd(c),
		newSchemaCmd(),
	)
	return cmd
}

// registerOverrideFlags adds one flag per overridable option, e.g.
// --dbcache, and binds the matching WALLET_* environment variable.
func (c *cli) registerOverrideFlags(flags *pflag.FlagSet) {
	for _, def := range opts.Catalogue() {
		if def.Arg == "" {
			continue
		}
		name := strings.TrimPrefix(def.Arg, "-")
		usage := fmt.Sprintf("override %s for this run", def.Name)
		switch def.Kind {
		case opts.KindBool:
			flags.Bool(name, def.Default.AsBool(), usage)
		case opts.KindInt:
			flags.Int(name, def.Default.AsInt(), usage)
		default:
			flags.String(name, def.Default.AsString(), usage)
		}
		if err := c.env.BindEnv(name); err != nil {
			c.log.WithError(err).WithField("flag", name).Warn("environment override unavailable")
		}
	}
}

// open loads the model over the settings file. The returned function
// releases the file lock.
func (c *cli) open(ctx context.Context) (*opts.Model, func(), error) {
	store, err := state.OpenFileStore(c.settingsPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.LoadError(); err != nil {
		c.log.WithError(err).Warn("settings file unreadable, starting from defaults")
	}
	release := func() {
		if err := store.Close(); err != nil {
			c.log.WithError(err).Warn("settings lock not released")
		}
	}

	evaluator, err := opts.NewEvaluatorByName(c.engine, opts.DefaultFunctions(), opts.NewProgramCache())
	if err != nil {
		release()
		return nil, nil, err
	}

	model := opts.New(store,
		opts.WithLogger(c.log.WithField("settings", store.Path())),
		opts.WithEvaluator(evaluator),
		opts.WithOverrides(opts.ChainOverrides(opts.FlagOverrides(c.nodeFlags), opts.ViperOverrides(c.env))),
		opts.WithActor(c.actor),
		opts.WithActivityHooks(activity.Hooks{c.activityLogger()}),
	)
	if err := model.Init(ctx, c.reset); err != nil {
		c.log.WithError(err).Warn("settings loaded with warnings")
	}
	return model, release, nil
}

func (c *cli) activityLogger() activity.ActivityHook {
	return activity.HookFunc(func(_ context.Context, event activity.Event) error {
		c.log.WithFields(logrus.Fields{
			"verb":    event.Verb,
			"object":  event.ObjectID,
			"session": event.SessionID,
		}).WithFields(logrus.Fields(event.Metadata)).Info("settings activity")
		return nil
	})
}

func lookupOption(name string) (opts.Definition, error) {
	id, ok := opts.ParseOptionID(name)
	if !ok {
		return opts.Definition{}, fmt.Errorf("unknown option %q", name)
	}
	def, _ := opts.Lookup(id)
	return def, nil
}

// parseValue converts command-line text to the option's kind.
func parseValue(def opts.Definition, raw string) (any, error) {
	switch def.Kind {
	case opts.KindBool:
		v, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean: %w", def.Name, err)
		}
		return v, nil
	case opts.KindInt:
		v, err := cast.ToIntE(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer: %w", def.Name, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}
