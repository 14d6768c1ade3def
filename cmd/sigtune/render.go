package main

import (
	"bytes"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sigtune/sigtune/pkg/config"
	"github.com/sigtune/sigtune/pkg/params"
)

// newOfflineStore builds a store from a defaults file without touching any
// service. Diagnostics are collected so commands can decide what to show.
func newOfflineStore(defaultsFile string, diagnostics *bytes.Buffer) (*params.Store, error) {
	cfg := config.DefaultConfig()
	if defaultsFile != "" {
		loaded, err := config.Load(defaultsFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return params.NewStore(cfg.Defaults.ParameterSet(), cfg.Service.FrequencyWeight,
		log.New(diagnostics, "", 0)), nil
}

func newRenderCmd() *cobra.Command {
	var (
		defaultsFile string
		overrides    []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the effective parameter set as an override string",
		Long: `Builds a parameter set from the defaults file (or compiled-in defaults),
applies any --override strings in order, and prints the rendered result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var diag bytes.Buffer
			store, err := newOfflineStore(defaultsFile, &diag)
			if err != nil {
				return err
			}
			for _, o := range overrides {
				if err := store.Apply(o); err != nil {
					return fmt.Errorf("apply override %q: %w", params.Sanitize(o), err)
				}
			}
			if diag.Len() > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), diag.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultsFile, "defaults", "", "Path to a defaults YAML file")
	cmd.Flags().StringArrayVar(&overrides, "override", nil, "Override string to apply (repeatable)")

	return cmd
}

func newCheckCmd() *cobra.Command {
	var defaultsFile string

	cmd := &cobra.Command{
		Use:   "check <override>",
		Short: "Validate an override string without applying it anywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var diag bytes.Buffer
			store, err := newOfflineStore(defaultsFile, &diag)
			if err != nil {
				return err
			}
			if err := store.Apply(args[0]); err != nil {
				return fmt.Errorf("override rejected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", store.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultsFile, "defaults", "", "Path to a defaults YAML file")

	return cmd
}

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <text>",
		Short: "Print the log-safe form of an untrusted override string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), params.Sanitize(args[0]))
			return nil
		},
	}
}
