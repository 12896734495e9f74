package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	opts "github.com/imchaeyun/wallet-options"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd(c *cli) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective settings, keyed by persistence key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, release, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			return exportValues(cmd.OutOrStdout(), format, effective(model))
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "yaml, toml or json")
	return cmd
}

func effective(model *opts.Model) map[string]any {
	values := make(map[string]any, model.RowCount())
	for _, def := range opts.Catalogue() {
		values[def.Key] = model.Get(def.ID).Interface()
	}
	return values
}

func exportValues(w io.Writer, format string, values map[string]any) error {
	var (
		payload []byte
		err     error
	)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		payload, err = yaml.Marshal(values)
	case "toml":
		payload, err = toml.Marshal(values)
	case "json":
		payload, err = json.MarshalIndent(values, "", "  ")
		payload = append(payload, '\n')
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	_, err = w.Write(payload)
	return err
}
