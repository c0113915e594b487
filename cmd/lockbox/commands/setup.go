package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the encryption key for the selected instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			exists, err := m.HasExistingKey(cmd.Context())
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("instance already has a key; use change-password or reset")
			}
			pw, err := readNewPassword("Password")
			if err != nil {
				return err
			}
			if _, err := m.SetupNewKey(cmd.Context(), pw); err != nil {
				return err
			}
			fmt.Println("Key created; instance is unlocked.")
			return nil
		},
	}
}
