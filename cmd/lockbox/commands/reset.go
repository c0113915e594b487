package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Destroy all key material for the selected instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset permanently destroys the key; re-run with --yes")
			}
			m, err := currentManager()
			if err != nil {
				return err
			}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Instance reset; no key remains.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destruction")
	return cmd
}
