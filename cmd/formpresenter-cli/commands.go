package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	formpresenter "github.com/goliatone/go-formpresenter"
	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/openapi"
	"github.com/goliatone/go-formpresenter/pkg/tui"
	"github.com/goliatone/go-formpresenter/pkg/view"
)

func newRootCmd(out io.Writer, sessionOpts ...tui.Option) *cobra.Command {
	root := &cobra.Command{
		Use:           "formpresenter",
		Short:         "Inspect and fill declarative forms from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (defaults to ./formpresenter.yaml when present)")
	flags.String("definitions", "", "directory of form definitions (embedded defaults when empty)")
	flags.String("prompt-prefix", "", "prefix for interactive prompts")
	flags.StringArray("set", nil, "initial model value as key=value (repeatable)")

	root.AddCommand(listCmd())
	root.AddCommand(inspectCmd())
	root.AddCommand(runCmd(sessionOpts))
	root.AddCommand(openapiCmd())
	root.AddCommand(checkCmd())
	return root
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available form ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := formpresenter.LoadDefinitions(cfg.Definitions)
			if err != nil {
				return err
			}
			for _, id := range store.IDs() {
				def, _ := store.Form(id)
				if def.Title != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, def.Title)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <form>",
		Short: "Print a JSON snapshot of a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			form, err := buildForm(cfg, args[0])
			if err != nil {
				return err
			}
			defer form.Close()

			var opts []view.Option
			if visibleOnly, _ := cmd.Flags().GetBool("visible-only"); visibleOnly {
				opts = append(opts, view.VisibleOnly())
			}
			snapshot, err := view.Snapshot(form, opts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snapshot)
		},
	}
	cmd.Flags().Bool("visible-only", false, "omit hidden fields")
	return cmd
}

func runCmd(sessionOpts []tui.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "run <form>",
		Short: "Fill a form interactively and print the submitted values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			form, err := buildForm(cfg, args[0])
			if err != nil {
				return err
			}
			defer form.Close()

			opts := append([]tui.Option{tui.WithTheme(tui.Theme{PromptPrefix: cfg.PromptPrefix})}, sessionOpts...)
			event, err := tui.New(opts...).Run(commandContext(cmd), form)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), event)
		},
	}
}

func openapiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi <file|url> [operationId]",
		Short: "Print the inline field descriptors for an OpenAPI operation",
		Long: `Print the inline field descriptors derived from the request body of an
OpenAPI operation. Without an operation id the available operations are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			data, err := readSource(ctx, args[0])
			if err != nil {
				return err
			}

			var opts []openapi.Option
			if validate, _ := cmd.Flags().GetBool("validate"); validate {
				opts = append(opts, openapi.WithValidation())
			}
			if label, _ := cmd.Flags().GetString("submit-label"); label != "" {
				opts = append(opts, openapi.WithSubmitLabel(label))
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				ids, err := openapi.Operations(ctx, data, opts...)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			descriptors, err := openapi.Descriptors(ctx, data, args[1], opts...)
			if err != nil {
				return err
			}
			for _, d := range descriptors {
				if inline, ok := d.(field.Inline); ok {
					fmt.Fprintln(out, string(inline))
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("validate", false, "validate the document before mapping")
	cmd.Flags().String("submit-label", "", "label for the generated submit button")
	return cmd
}

func buildForm(cfg config, id string) (*formpresenter.Form, error) {
	store, err := formpresenter.LoadDefinitions(cfg.Definitions)
	if err != nil {
		return nil, err
	}
	return formpresenter.NewForm(store, id, cfg.Model)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func readSource(ctx context.Context, raw string) ([]byte, error) {
	location := strings.TrimSpace(raw)
	if location == "" {
		return nil, errors.New("openapi source is empty")
	}
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", location, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
