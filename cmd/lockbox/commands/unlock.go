package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lockbox/internal/keymanager"
)

func unlockCmd() *cobra.Command {
	var remember bool
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the selected instance with its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}

			// A persisted session skips the password prompt entirely.
			if m.HasPersistedSession(cmd.Context()) {
				if key := m.RestoreSession(cmd.Context()); key != nil {
					fmt.Println("Unlocked from saved session.")
					return nil
				}
			}

			pw, err := readPassword("Password")
			if err != nil {
				return err
			}
			key, err := m.UnlockWithPassword(cmd.Context(), pw)
			if errors.Is(err, keymanager.ErrNoKey) {
				return fmt.Errorf("no key set up for this instance; run setup first")
			}
			if err != nil {
				return err
			}
			if key == nil {
				return fmt.Errorf("wrong password")
			}
			if remember {
				if !m.PersistSession(cmd.Context()) {
					fmt.Println("Unlocked, but saving the session failed.")
					return nil
				}
				fmt.Println("Unlocked; session saved.")
				return nil
			}
			fmt.Println("Unlocked.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&remember, "remember", false, "persist an unlockable session")
	return cmd
}
