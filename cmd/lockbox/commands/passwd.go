package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func changePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Re-key the selected instance under a new password",
		Long: "Re-key the selected instance under a new password.\n\n" +
			"Content encrypted under the old key is not re-encrypted here; the\n" +
			"application layer migrates it using both keys.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			oldPW, err := readPassword("Current password")
			if err != nil {
				return err
			}
			// The -p flag only covers the current password.
			password = ""
			newPW, err := readNewPassword("New password")
			if err != nil {
				return err
			}
			oldKey, _, err := m.ChangePassword(cmd.Context(), oldPW, newPW)
			if err != nil {
				return err
			}
			if oldKey == nil {
				return fmt.Errorf("wrong password")
			}
			fmt.Println("Password changed.")
			return nil
		},
	}
}
