package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var locales []string
	cmd := &cobra.Command{
		Use:   "import <models>",
		Short: "Index every stored record of each model",
		Long: `Read the stored records of each model in chunks and upsert them.

The bucket mapping is created when missing. In multilingual mode the import
runs once per supported locale unless --locale narrows it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.resolveModels(args[0])
			if err != nil {
				return err
			}
			if _, _, err := a.quickCache(cmd.Context()); err != nil {
				return err
			}
			svc, err := a.importerService(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				st, err := svc.Import(cmd.Context(), t, a.locales(locales))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s records in %d batches (%d rejected)\n",
					st.Records, t.Name, st.Batches, st.Rejected)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&locales, "locale", nil, "locales to import (default: all supported)")
	return cmd
}

func newFlushCmd(a *app) *cobra.Command {
	var locales []string
	cmd := &cobra.Command{
		Use:   "flush <models>",
		Short: "Remove the documents of every stored record of each model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.resolveModels(args[0])
			if err != nil {
				return err
			}
			if _, _, err := a.quickCache(cmd.Context()); err != nil {
				return err
			}
			svc, err := a.importerService(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				st, err := svc.Flush(cmd.Context(), t, a.locales(locales))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Flushed %d %s records\n", st.Records, t.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&locales, "locale", nil, "locales to flush (default: all supported)")
	return cmd
}

// locales returns the explicit locales or the configured ones.
func (a *app) locales(explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	return a.adminService().Locales()
}
