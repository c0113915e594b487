package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the persisted session for the selected instance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether a saved session exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			if m.HasPersistedSession(cmd.Context()) {
				fmt.Println("Session saved.")
			} else {
				fmt.Println("No saved session.")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "persist",
		Short: "Save the current unlocked key as a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			if !m.PersistSession(cmd.Context()) {
				return fmt.Errorf("no live key to persist, or storage refused")
			}
			fmt.Println("Session saved.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore",
		Short: "Unlock from the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			if m.RestoreSession(cmd.Context()) == nil {
				return fmt.Errorf("no usable session; unlock with the password")
			}
			fmt.Println("Unlocked from saved session.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			if err := m.ClearPersistedSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Session cleared.")
			return nil
		},
	})

	return cmd
}
