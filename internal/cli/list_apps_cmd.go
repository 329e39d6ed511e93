package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listAppsCmd = &cobra.Command{
	Use:   "list-apps",
	Short: "list the applications installed on the target",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newFacade()
		if err != nil {
			return err
		}
		defer c.Close()

		apps, err := c.ListApps(cmd.Context())
		if err != nil {
			return err
		}
		for _, app := range apps {
			fmt.Printf("%s | %s | %s | %s | %s | debuggable=%v\n",
				app.BundleID,
				app.Name,
				app.InstallType,
				strings.Join(app.Architectures, ","),
				app.ProcessState,
				app.Debuggable,
			)
		}
		return nil
	},
}
