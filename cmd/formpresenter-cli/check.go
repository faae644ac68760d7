package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	formpresenter "github.com/goliatone/go-formpresenter"
	"github.com/goliatone/go-formpresenter/pkg/definition"
)

type violation struct {
	form    string
	message string
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build every form definition and report the ones that fail",
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

			violations := checkStore(store)
			if len(violations) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d forms ok\n", len(store.IDs()))
				return nil
			}
			for _, v := range violations {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", v.form, v.message)
			}
			return fmt.Errorf("%d of %d forms failed to build", len(violations), len(store.IDs()))
		},
	}
}

func checkStore(store *definition.Store) []violation {
	var violations []violation
	for _, id := range store.IDs() {
		form, err := formpresenter.NewForm(store, id, nil)
		if err != nil {
			violations = append(violations, violation{form: id, message: err.Error()})
			continue
		}
		form.Close()
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].form == violations[j].form {
			return violations[i].message < violations[j].message
		}
		return violations[i].form < violations[j].form
	})
	return violations
}
