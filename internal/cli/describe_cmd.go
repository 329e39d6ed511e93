package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boot85/idb/internal/protocol"
)

var (
	describeX int32
	describeY int32
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "print accessibility information for the target screen",
	Long: `prints accessibility information for the whole screen, or for the
			element at --x/--y when both are given`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newFacade()
		if err != nil {
			return err
		}
		defer c.Close()

		var point *protocol.Point
		if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
			point = &protocol.Point{X: describeX, Y: describeY}
		}

		info, err := c.Describe(cmd.Context(), point)
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	},
}

func init() {
	describeCmd.Flags().Int32Var(&describeX, "x", 0, "x coordinate of the point to describe")
	describeCmd.Flags().Int32Var(&describeY, "y", 0, "y coordinate of the point to describe")
}
