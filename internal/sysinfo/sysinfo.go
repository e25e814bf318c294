// Package sysinfo collects the local host's status as an rwhod snapshot.
package sysinfo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"

	"rwhotools/internal/whod"
)

// IdleFunc reports how long a terminal has been idle at now.
type IdleFunc func(line string, now time.Time) time.Duration

// Collect gathers hostname, boot time, load averages and logged-in sessions
// and returns them as a snapshot stamped with now.
func Collect(now time.Time) (*whod.Snapshot, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("reading hostname: %w", err)
	}

	boot, err := host.BootTime()
	if err != nil {
		return nil, fmt.Errorf("reading boot time: %w", err)
	}

	h := whod.Header{
		Version:  whod.Version,
		Type:     whod.TypeStatus,
		SendTime: int32(now.Unix()),
		RecvTime: int32(now.Unix()),
		Hostname: hostname,
		BootTime: int32(boot),
	}

	if avg, err := load.Avg(); err == nil {
		h.LoadAv = [3]int32{hundredths(avg.Load1), hundredths(avg.Load5), hundredths(avg.Load15)}
	}

	// No utmp (containers, some BSD setups) just means nobody is logged in.
	users, _ := host.Users()

	return whod.New(h, Sessions(users, now, TTYIdle)), nil
}

// Sessions converts gopsutil login records into snapshot entries.
func Sessions(users []host.UserStat, now time.Time, idle IdleFunc) []whod.Entry {
	entries := make([]whod.Entry, 0, len(users))
	for _, u := range users {
		if u.User == "" || u.Terminal == "" {
			continue
		}
		entries = append(entries, whod.Entry{
			Line:      u.Terminal,
			Name:      u.User,
			LoginTime: int32(u.Started),
			Idle:      int32(idle(u.Terminal, now) / time.Second),
		})
		if len(entries) == whod.MaxEntries {
			break
		}
	}
	return entries
}

// TTYIdle uses the terminal device's modification time as the last activity.
func TTYIdle(line string, now time.Time) time.Duration {
	path := line
	if !strings.HasPrefix(line, "/") {
		path = filepath.Join("/dev", line)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if d := now.Sub(fi.ModTime()); d > 0 {
		return d
	}
	return 0
}

func hundredths(f float64) int32 {
	return int32(math.Round(f * 100))
}
