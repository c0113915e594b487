package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func instancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Manage the workspace directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := wire.Instances.List()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No workspaces.")
				return nil
			}
			for _, r := range recs {
				fmt.Printf("%s  %s  (created %s)\n",
					r.ID, r.Name, time.Unix(r.CreatedUTC, 0).UTC().Format(time.DateOnly))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "new <name>",
		Short: "Register a new workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := wire.Instances.Add(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created workspace %s (%s)\n", rec.Name, rec.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Reconcile the directory against key storage",
		Long: "Reconcile the directory against key storage.\n\n" +
			"Clears vault sessions with no directory entry and drops directory\n" +
			"entries whose key material is missing or partial. Best-effort: a\n" +
			"failing sweep cleans nothing and exits successfully.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := wire.Instances.IDs()
			if err != nil {
				return err
			}
			report := wire.Registry.ValidateAndPrune(cmd.Context(), ids, wire.Instances.Remove)
			if len(report.OrphanedRegistryEntries) == 0 && len(report.ClearedVaultSessions) == 0 {
				fmt.Println("Nothing to prune.")
				return nil
			}
			for _, id := range report.ClearedVaultSessions {
				fmt.Printf("cleared vault session: %s\n", id)
			}
			for _, id := range report.OrphanedRegistryEntries {
				fmt.Printf("removed orphaned workspace: %s\n", id)
			}
			return nil
		},
	})

	return cmd
}
