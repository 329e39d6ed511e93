package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/store"
)

var connectCmd = &cobra.Command{
	Use:   "connect host port udid",
	Short: "register a companion in the local registry",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		host := args[0]
		port, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Printf("invalid port %q: %v\n", args[1], err)
			return
		}
		udid := args[2]

		registry, err := openRegistry(loadConfig())
		if err != nil {
			fmt.Println(err)
			return
		}

		entry := &store.Companion{
			UDID:    udid,
			Host:    host,
			Port:    port,
			IsLocal: companion.IsLoopback(host),
		}
		if err := registry.Upsert(entry); err != nil {
			fmt.Printf("registering companion: %v\n", err)
			return
		}
		fmt.Printf("connected %s at %s:%d\n", udid, host, port)
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect udid",
	Short: "remove a companion from the local registry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := openRegistry(loadConfig())
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := registry.Delete(args[0]); err != nil {
			fmt.Printf("removing companion: %v\n", err)
			return
		}
		fmt.Printf("disconnected %s\n", args[0])
	},
}

var listTargetsCmd = &cobra.Command{
	Use:   "list-targets",
	Short: "list the registered companions",
	Run: func(cmd *cobra.Command, args []string) {
		registry, err := openRegistry(loadConfig())
		if err != nil {
			fmt.Println(err)
			return
		}
		targets, err := registry.List()
		if err != nil {
			fmt.Printf("listing companions: %v\n", err)
			return
		}
		for _, t := range targets {
			kind := "remote"
			if t.IsLocal {
				kind = "local"
			}
			fmt.Printf("%s | %s:%d | %s\n", t.UDID, t.Host, t.Port, kind)
		}
	},
}
