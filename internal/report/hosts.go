// Package report renders host summaries and user listings as fixed-width text
// or as machine-readable JSON / MessagePack.
package report

import (
	"fmt"
	"io"

	"rwhotools/internal/liveness"
	"rwhotools/internal/spool"
)

const maxInterval = 999 * 24 * 60 * 60

// Interval renders a duration in seconds as "D+HH:MM" or "HH:MM", rounded up
// to the minute and prefixed with label. Negative or absurd values print as
// "??:??".
func Interval(secs int64, label string) string {
	if secs < 0 || secs > maxInterval {
		return fmt.Sprintf("%s     ??:??", label)
	}
	minutes := (secs + 59) / 60
	hours := minutes / 60
	minutes %= 60
	days := hours / 24
	hours %= 24
	if days > 0 {
		return fmt.Sprintf("%s %3d+%02d:%02d", label, days, hours, minutes)
	}
	return fmt.Sprintf("%s     %2d:%02d", label, hours, minutes)
}

// WriteHosts prints one line per host in the order given. Down hosts show how
// long they have been down; up hosts show uptime, users and load.
func WriteHosts(w io.Writer, summary *spool.HostSummary, live liveness.Classifier) error {
	width := 4
	if summary.MaxLoad >= 1000 {
		width = 5
	}

	for _, h := range summary.Hosts {
		var err error
		if live.IsDown(h.RecvTime, summary.Now) {
			_, err = fmt.Fprintf(w, "%-12.12s%s\n", h.Hostname, Interval(live.Since(h.RecvTime, summary.Now), "down"))
		} else {
			plural := "s,"
			if h.Users == 1 {
				plural = ", "
			}
			_, err = fmt.Fprintf(w, "%-12.12s%s,  %4d user%s  load %*.2f, %*.2f, %*.2f\n",
				h.Hostname,
				Interval(h.Uptime(), "  up"),
				h.Users, plural,
				width, h.Load(0),
				width, h.Load(1),
				width, h.Load(2))
		}
		if err != nil {
			return fmt.Errorf("writing host line: %w", err)
		}
	}
	return nil
}
