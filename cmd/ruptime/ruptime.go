// Package ruptime implements the host-summary report: one line per host with
// up/down state, users and load.
package ruptime

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"rwhotools/internal/cli"
	"rwhotools/internal/liveness"
	"rwhotools/internal/order"
	"rwhotools/internal/report"
	"rwhotools/internal/spool"
	"rwhotools/pkg/config"
	"rwhotools/pkg/logger"
)

const usage = "usage: rwhotools ruptime [-alrut] [-format text|json|msgpack]"

// Run prints the host summary for the configured spool directory.
func Run(configPath string, args []string, stdout io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return run(cfg, args, stdout, time.Now)
}

func run(cfg *config.Config, args []string, stdout io.Writer, now func() time.Time) error {
	log := logger.Init(cfg.LogLevel)

	var (
		allUsers bool
		sorter   order.Sorter
		format   string
	)
	fs := flag.NewFlagSet("ruptime", flag.ContinueOnError)
	fs.BoolVar(&allUsers, "a", false, "count idle users too")
	fs.BoolVar(&sorter.Reverse, "r", false, "reverse the sort order")
	fs.BoolFunc("l", "sort by load average", func(string) error { sorter.Policy = order.ByLoad; return nil })
	fs.BoolFunc("u", "sort by number of users", func(string) error { sorter.Policy = order.ByUsers; return nil })
	fs.BoolFunc("t", "sort by uptime", func(string) error { sorter.Policy = order.ByUptime; return nil })
	fs.StringVar(&format, "format", "text", "output format: text, json or msgpack")

	if err := cli.Parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stdout, usage)
			return nil
		}
		return fmt.Errorf("%w\n%s", err, usage)
	}
	outFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	idle, err := cfg.Report.ParseIdleThreshold()
	if err != nil {
		return err
	}
	downAfter, err := cfg.Report.ParseDownThreshold()
	if err != nil {
		return err
	}
	live := liveness.New(downAfter)

	sp := spool.New(cfg.Spool.Dir, log)
	sp.Prefix = cfg.Spool.Prefix
	sp.Liveness = live
	sp.Now = now

	summary, err := sp.Hosts(spool.HostOptions{AllUsers: allUsers, IdleThreshold: idle})
	if errors.Is(err, spool.ErrNoHosts) {
		fmt.Fprintf(stdout, "ruptime: %v.\n", err)
		return err
	}
	if err != nil {
		return err
	}

	sorter.Now = summary.Now
	sorter.Liveness = live
	sorter.Sort(summary.Hosts)

	log.Debug().
		Stringer("policy", sorter.Policy).
		Bool("reverse", sorter.Reverse).
		Int("hosts", len(summary.Hosts)).
		Msg("Printing host summary")

	w := bufio.NewWriter(stdout)
	if outFormat == report.FormatText {
		err = report.WriteHosts(w, summary, live)
	} else {
		err = report.Encode(w, outFormat, report.NewHostExport(summary, live))
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
