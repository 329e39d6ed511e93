package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve bundle-id permission ...",
	Short: "approve permissions for an app",
	Long:  `approves the given permissions (photos, camera, contacts) for the app with the given bundle id`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newFacade()
		if err != nil {
			return err
		}
		defer c.Close()

		bundleID := args[0]
		permissions := args[1:]
		if err := c.Approve(cmd.Context(), bundleID, permissions); err != nil {
			return err
		}
		fmt.Printf("approved %v for %s\n", permissions, bundleID)
		return nil
	},
}
