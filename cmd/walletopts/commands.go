package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	opts "github.com/imchaeyun/wallet-options"
	"github.com/imchaeyun/wallet-options/schema/openapi"
	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every option with its effective value and origin",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPTION\tKEY\tVALUE\tSOURCE\tNOTES")
			for _, def := range opts.Catalogue() {
				fmt.Fprintf(w, "%s\t%s\t%q\t%s\t%s\n", def.Name, def.Key, model.Get(def.ID).String(), model.Source(def.ID), notes(def))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if report := model.OverriddenByCommandLine(); report != "" {
				fmt.Fprintf(out, "\nOverridden for this run: %s\n", report)
			}
			return nil
		},
	}
}

func notes(def opts.Definition) string {
	switch {
	case def.RequiresRestart && def.Local:
		return "restart,local"
	case def.RequiresRestart:
		return "restart"
	case def.Local:
		return "local"
	default:
		return ""
	}
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <option>",
		Short: "Print the effective value of an option",
		Long:  "Print the effective value of an option. The option may be named by its name, persistence key or override argument.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupOption(args[0])
			if err != nil {
				return err
			}
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			fmt.Fprintln(cmd.OutOrStdout(), model.Get(def.ID).String())
			return nil
		},
	}
}

func newSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set <option> <value>",
		Short: "Validate and save an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupOption(args[0])
			if err != nil {
				return err
			}
			value, err := parseValue(def, args[1])
			if err != nil {
				return err
			}
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := model.Set(cmd.Context(), def.ID, value); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %s\n", def.Name, model.Get(def.ID))
			if model.Overridden(def.ID) {
				fmt.Fprintf(out, "note: %s is overridden for this run\n", def.Arg)
			}
			if model.RestartRequired() {
				fmt.Fprintln(out, "restart required for the change to take effect")
			}
			return nil
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := model.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings cleared")
			return nil
		},
	}
}

func newTraceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <option>",
		Short: "Show what each layer holds for an option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupOption(args[0])
			if err != nil {
				return err
			}
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			trace, err := model.Trace(cmd.Context(), def.ID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), trace)
		},
	}
}

func newEvalCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression against the effective settings",
		Long: `Evaluate an expression with the configured rule engine. Effective values
are available as settings.<key>, e.g. "settings.nDatabaseCache > 1000".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			result, err := model.Evaluate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the settings schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var generator opts.SchemaGenerator
			switch opts.SchemaFormat(format) {
			case opts.SchemaFormatOpenAPI:
				generator = openapi.NewGenerator()
			case opts.SchemaFormatDescriptors:
				generator = opts.DefaultSchemaGenerator()
			default:
				return fmt.Errorf("unknown schema format %q", format)
			}
			doc, err := opts.New(nil, opts.WithSchemaGenerator(generator)).Schema()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc.Document)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(opts.SchemaFormatOpenAPI), "openapi or descriptors")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(payload))
	return err
}
