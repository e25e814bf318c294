// Package rwho implements the user listing: every session on every host that
// is up, sorted by login name.
package rwho

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

const usage = "usage: rwhotools rwho [-a] [-format text|json|msgpack]"

// Run prints the user listing for the configured spool directory.
func Run(configPath string, args []string, stdout io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return run(cfg, args, stdout, time.Now, time.Local)
}

func run(cfg *config.Config, args []string, stdout io.Writer, now func() time.Time, loc *time.Location) error {
	log := logger.Init(cfg.LogLevel)

	var (
		allUsers bool
		format   string
	)
	fs := flag.NewFlagSet("rwho", flag.ContinueOnError)
	fs.BoolVar(&allUsers, "a", false, "list idle sessions too")
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

	sp := spool.New(cfg.Spool.Dir, log)
	sp.Prefix = cfg.Spool.Prefix
	sp.Liveness = liveness.New(downAfter)
	sp.Now = now

	listing, err := sp.Users(spool.UserOptions{
		AllUsers:      allUsers,
		IdleThreshold: idle,
		MaxUsers:      cfg.Report.MaxUsers,
	})
	if err != nil {
		return err
	}
	order.SortUsers(listing.Users)

	w := bufio.NewWriter(stdout)
	if outFormat == report.FormatText {
		err = report.WriteUsers(w, listing, report.UserOptions{AllUsers: allUsers, Location: loc})
	} else {
		err = report.Encode(w, outFormat, listing)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}
