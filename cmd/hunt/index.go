package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	adminuc "github.com/kailas-cloud/hunt/internal/usecase/admin"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Create the configured index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := a.adminService()
			created, err := svc.CreateIndex(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Index %q created\n", svc.IndexName())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Index %q already exists\n", svc.IndexName())
			}
			return nil
		},
	}
}

func newUninstallCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Delete the configured index and all of its documents",
		Long: `Delete the configured index.

IMPORTANT: every indexed document is lost. The command asks for confirmation
unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := a.adminService()
			var confirm adminuc.Confirmer = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if force {
				confirm = adminuc.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
			}
			if err := svc.DeleteIndex(cmd.Context(), confirm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index %q deleted\n", svc.IndexName())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

// promptConfirm asks question on out and accepts y or yes from in.
func promptConfirm(in io.Reader, out io.Writer) adminuc.ConfirmFunc {
	return func(_ context.Context, question string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", question)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}
