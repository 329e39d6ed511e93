package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/daemon"
	"github.com/boot85/idb/internal/logger"
)

var daemonPort int

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "run the idb daemon",
	Long:  `runs the daemon that relays client calls to registered companions`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if daemonPort != 0 {
			cfg.DaemonPort = daemonPort
		}
		if err := cfg.EnsureHome(); err != nil {
			fmt.Println(err)
			return
		}
		log := logger.NewDaemonLogger(cfg.LogLevel, cfg.LogDir())

		registry, err := openRegistry(cfg)
		if err != nil {
			log.Fatal(err)
			return
		}
		pidFile := daemon.NewPidFile(cfg.PidFilePath())
		if err := pidFile.Save(os.Getpid()); err != nil {
			log.Warnf("saving daemon pid: %v", err)
		}

		addr := net.JoinHostPort(cfg.DaemonHost, strconv.Itoa(cfg.DaemonPort))
		resolver := companion.NewResolver(registry, log)
		server := daemon.NewServer(addr, resolver, log)
		log.Infof("daemon listening on %s", addr)
		if err := server.Run(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "kill all known daemon processes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		pidFile := daemon.NewPidFile(cfg.PidFilePath())
		if err := pidFile.KillAll(); err != nil {
			fmt.Printf("killing daemons: %v\n", err)
			return
		}
		fmt.Println("killed all known daemon processes")
	},
}

func init() {
	daemonCmd.Flags().IntVar(&daemonPort, "port", 0, "port to listen on")
}
