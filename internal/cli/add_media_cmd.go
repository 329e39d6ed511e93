package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var addMediaCmd = &cobra.Command{
	Use:   "add-media path/to/media ...",
	Short: "add photos and videos to the target's media library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newFacade()
		if err != nil {
			return err
		}
		defer c.Close()

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("uploading media"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		stop := make(chan struct{})
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					_ = bar.Add(1)
				}
			}
		}()

		err = c.AddMedia(cmd.Context(), args)
		close(stop)
		_ = bar.Finish()
		if err != nil {
			return err
		}
		fmt.Printf("added %d media items\n", len(args))
		return nil
	},
}
