package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Manage per-model index mappings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <models>",
			Short: "Store the mapping of each model (comma separated)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				types, err := a.resolveModels(args[0])
				if err != nil {
					return err
				}
				svc := a.adminService()
				for _, t := range types {
					if err := svc.MapType(cmd.Context(), t); err != nil {
						return fmt.Errorf("map %s: %w", t.Name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Mapped %s\n", t.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <models>",
			Short: "Delete the mapping of each model (comma separated)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				types, err := a.resolveModels(args[0])
				if err != nil {
					return err
				}
				svc := a.adminService()
				for _, t := range types {
					if err := svc.UnmapType(cmd.Context(), t); err != nil {
						return fmt.Errorf("unmap %s: %w", t.Name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Unmapped %s\n", t.Name)
				}
				return nil
			},
		},
	)
	return cmd
}

// splitModels splits a comma separated list, dropping blanks.
func splitModels(arg string) []string {
	var out []string
	for _, part := range strings.Split(arg, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
