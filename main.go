// rwhotools reports on hosts and users from an rwho spool directory.
//
// Usage:
//
//	rwhotools ruptime   show host status, one line per host
//	rwhotools rwho      list users logged in on hosts that are up
//	rwhotools snapshot  write the local host's status in spool format
//
// When installed as "ruptime" or "rwho" the subcommand is taken from the
// program name.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rwhotools/cmd/ruptime"
	"rwhotools/cmd/rwho"
	"rwhotools/cmd/snapshot"
	"rwhotools/internal/spool"
)

const (
	defaultSystemPath = "/etc/rwhotools/config.toml"
	defaultLocalPath  = "rwhotools.toml"
	version           = "1.0.0"
)

func main() {
	args := os.Args[1:]

	// ruptime and rwho may be links to this binary.
	switch prog := filepath.Base(os.Args[0]); prog {
	case "ruptime", "rwho":
		args = append([]string{prog}, args...)
	}

	configPath := ""

	// Parse --config flag if present
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			args = append(args[:i], args[i+2:]...)
			i--
			continue
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			configPath = v
			args = append(args[:i], args[i+1:]...)
			i--
			continue
		}
	}

	// Auto-discover config if not specified
	if configPath == "" {
		if _, err := os.Stat(defaultLocalPath); err == nil {
			configPath = defaultLocalPath
		} else {
			configPath = defaultSystemPath
		}
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	subcommand, rest := args[0], args[1:]
	var err error

	switch subcommand {
	case "ruptime":
		err = ruptime.Run(configPath, rest, os.Stdout)
	case "rwho":
		err = rwho.Run(configPath, rest, os.Stdout)
	case "snapshot":
		err = snapshot.Run(configPath, rest, os.Stdout)
	case "version":
		fmt.Printf("rwhotools v%s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}

	// ruptime has already reported an empty spool on stdout.
	if errors.Is(err, spool.ErrNoHosts) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`rwhotools v%s - host and user reports from the rwho spool

Usage:
  rwhotools <command> [--config <path>] [flags]

Commands:
  ruptime   Show status of hosts on the local network
            -a  count idle users too
            -l  sort by load average
            -u  sort by number of users
            -t  sort by uptime
            -r  reverse the sort order
  rwho      List users logged in on hosts that are up
            -a  include sessions idle for an hour or more
  snapshot  Write the local host's status in spool format
            -o FILE  write to FILE instead of stdout
  version   Print version information
  help      Show this help message

Options:
  --config <path>   Path to config file (default: looks for ./%s, then %s)
  -format <fmt>     Output for ruptime and rwho: text, json or msgpack

Examples:
  rwhotools ruptime -l                  # Busiest hosts first
  rwhotools rwho -a                     # Every session, idle or not
  rwhotools snapshot -o /var/spool/rwho/whod.$(hostname)

`, version, defaultLocalPath, defaultSystemPath)
}
