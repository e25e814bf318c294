// Package order sorts host and user records for the reports.
package order

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"rwhotools/internal/liveness"
	"rwhotools/internal/spool"
)

// Policy selects how hosts are ordered.
type Policy int

const (
	Alphabetical Policy = iota
	ByLoad
	ByUsers
	ByUptime
)

func (p Policy) String() string {
	switch p {
	case Alphabetical:
		return "alphabetical"
	case ByLoad:
		return "load"
	case ByUsers:
		return "users"
	case ByUptime:
		return "uptime"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Sorter compares hosts under one policy. Now must be the same instant the
// report classifies hosts against.
type Sorter struct {
	Policy   Policy
	Reverse  bool
	Now      int64
	Liveness liveness.Classifier
}

// Sort orders hosts in place. Equal keys keep no particular order.
func (s Sorter) Sort(hosts []spool.HostRecord) {
	slices.SortFunc(hosts, s.Compare)
}

// Compare is the three-way comparison for the selected policy.
//
// Load and user-count orders put busier hosts first. A down host never has its
// load or users looked at: by default it sorts after every up host, and two down hosts
// fall back to the uptime order.
func (s Sorter) Compare(a, b spool.HostRecord) int {
	switch s.Policy {
	case ByLoad:
		return s.busy(a, b, int(b.LoadAv[0])-int(a.LoadAv[0]))
	case ByUsers:
		return s.busy(a, b, b.Users-a.Users)
	case ByUptime:
		return s.uptime(a, b)
	default:
		return s.dir() * strings.Compare(a.Hostname, b.Hostname)
	}
}

func (s Sorter) busy(a, b spool.HostRecord, diff int) int {
	aDown, bDown := s.down(a), s.down(b)
	switch {
	case aDown && bDown:
		return s.uptime(a, b)
	case aDown:
		return s.dir()
	case bDown:
		return -s.dir()
	}
	return s.dir() * cmp.Compare(diff, 0)
}

// uptime orders longest-up first. A down host's key is minus the time it has
// been down, so it lands after all up hosts, longest-down last.
func (s Sorter) uptime(a, b spool.HostRecord) int {
	return s.dir() * cmp.Compare(s.uptimeKey(b), s.uptimeKey(a))
}

func (s Sorter) uptimeKey(h spool.HostRecord) int64 {
	if s.down(h) {
		return h.RecvTime - s.Now
	}
	return h.Uptime()
}

func (s Sorter) down(h spool.HostRecord) bool {
	return s.Liveness.IsDown(h.RecvTime, s.Now)
}

func (s Sorter) dir() int {
	if s.Reverse {
		return -1
	}
	return 1
}

// CompareUsers orders sessions by login name, then host, then terminal.
func CompareUsers(a, b spool.UserRecord) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := strings.Compare(a.Hostname, b.Hostname); c != 0 {
		return c
	}
	return strings.Compare(a.Line, b.Line)
}

// SortUsers orders sessions in place with CompareUsers.
func SortUsers(users []spool.UserRecord) {
	slices.SortFunc(users, CompareUsers)
}
