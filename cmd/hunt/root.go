package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/hunt/internal/config"
)

// newRootCmd builds the command tree. Subcommands receive the app once the
// persistent pre-run has loaded the configuration.
func newRootCmd() *cobra.Command {
	var env string
	a := &app{}

	root := &cobra.Command{
		Use:   "hunt",
		Short: "Keep a search index in sync with relational records",
		Long: `hunt mirrors application records into an Elasticsearch index and serves
searches that come back as typed records with their relations.

Example usage:
  hunt install                       # Create the configured index
  hunt map add post,user             # Store the Post and User mappings
  hunt import post                   # Index every stored post
  hunt serve                         # Run the search and sync API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			loaded, err := newApp(env)
			if err != nil {
				return err
			}
			*a = *loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				a.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "configuration environment (config/<env>.yaml)")

	root.AddCommand(
		newInstallCmd(a),
		newUninstallCmd(a),
		newMapCmd(a),
		newImportCmd(a),
		newFlushCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}
