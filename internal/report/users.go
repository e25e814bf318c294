package report

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"rwhotools/internal/spool"
)

// loginLayout matches the month, day and clock part of ctime(3).
const loginLayout = "Jan _2 15:04"

// UserOptions control WriteUsers.
type UserOptions struct {
	// AllUsers selects the long idle column, with hours.
	AllUsers bool
	// Location for login times; time.Local when nil.
	Location *time.Location
}

// WriteUsers prints one line per session: login name, host:terminal padded to
// the widest entry, login time and, when at least a minute, idle time.
func WriteUsers(w io.Writer, listing *spool.UserListing, opts UserOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	width := 0
	for _, u := range listing.Users {
		width = max(width, utf8.RuneCountInString(u.Hostname+":"+u.Line))
	}

	var b strings.Builder
	for _, u := range listing.Users {
		b.Reset()
		fmt.Fprintf(&b, "%-8.8s %-*s %.12s",
			u.Name,
			width, u.Hostname+":"+u.Line,
			time.Unix(u.LoginTime, 0).In(loc).Format(loginLayout))
		writeIdle(&b, u.Idle, opts.AllUsers)
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("writing user line: %w", err)
		}
	}
	return nil
}

func writeIdle(b *strings.Builder, idleSecs int64, long bool) {
	idle := idleSecs / 60
	if idle <= 0 {
		return
	}
	if long {
		if idle >= 100*60 {
			idle = 100*60 - 1
		}
		if idle >= 60 {
			fmt.Fprintf(b, " %2d", idle/60)
		} else {
			b.WriteString("   ")
		}
	} else {
		b.WriteString(" ")
	}
	fmt.Fprintf(b, ":%02d", idle%60)
}
