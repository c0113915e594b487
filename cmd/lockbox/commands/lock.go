package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Zero the in-memory key for the selected instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentManager()
			if err != nil {
				return err
			}
			m.ClearKey()
			fmt.Println("Locked.")
			return nil
		},
	}
}
