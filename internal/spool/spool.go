// Package spool reads the rwho spool directory and builds the host and user
// collections the reports are made from.
package spool

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rwhotools/internal/epoch"
	"rwhotools/internal/liveness"
	"rwhotools/internal/whod"
)

// Defaults matching the classic rwho tools.
const (
	DefaultDir           = "/var/spool/rwho"
	DefaultPrefix        = "whod."
	DefaultIdleThreshold = time.Hour
	DefaultMaxUsers      = 1000
)

var (
	// ErrNoHosts means the spool held no decodable snapshot.
	ErrNoHosts = errors.New("no hosts")
	// ErrTooManyUsers means a user listing went over its session limit.
	ErrTooManyUsers = errors.New("too many users")
)

// Spool is a read-only view of a spool directory.
type Spool struct {
	Dir      string
	Prefix   string
	Liveness liveness.Classifier
	Log      zerolog.Logger
	// Now is the reference clock; time.Now when nil.
	Now func() time.Time
}

// New returns a Spool over dir with the default prefix and liveness threshold.
func New(dir string, log zerolog.Logger) *Spool {
	return &Spool{
		Dir:      dir,
		Prefix:   DefaultPrefix,
		Liveness: liveness.New(liveness.DefaultThreshold),
		Log:      log,
	}
}

// HostOptions control Hosts.
type HostOptions struct {
	// AllUsers counts idle sessions too.
	AllUsers      bool
	IdleThreshold time.Duration
}

// UserOptions control Users.
type UserOptions struct {
	AllUsers      bool
	IdleThreshold time.Duration
	MaxUsers      int
}

// Hosts decodes every snapshot into a HostRecord. The reference time is taken
// once all files have been read, and is returned with the summary so that the
// caller classifies hosts against the same instant.
func (s *Spool) Hosts(opts HostOptions) (*HostSummary, error) {
	snaps, err := s.snapshots()
	if err != nil {
		return nil, err
	}

	var decoded []*whod.Snapshot
	for _, snap := range snaps {
		decoded = append(decoded, snap)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoHosts, s.Dir)
	}

	now := s.now()
	idle := idleLimit(opts.IdleThreshold)
	summary := &HostSummary{
		Hosts: make([]HostRecord, 0, len(decoded)),
		Now:   now,
	}

	for _, snap := range decoded {
		c := epoch.Correction(snap.SendTime, now)
		rec := HostRecord{
			Hostname: snap.Hostname,
			SendTime: epoch.Unwrap(snap.SendTime, c),
			RecvTime: epoch.Unwrap(snap.RecvTime, c),
			BootTime: epoch.Unwrap(snap.BootTime, c),
			LoadAv:   snap.LoadAv,
		}
		// The 15 minute sample does not widen the load column.
		for _, l := range snap.LoadAv[:2] {
			if l > summary.MaxLoad {
				summary.MaxLoad = l
			}
		}
		for e := range snap.Entries() {
			if opts.AllUsers || int64(e.Idle) < idle {
				rec.Users++
			}
		}
		summary.Hosts = append(summary.Hosts, rec)
	}

	s.Log.Debug().
		Str("dir", s.Dir).
		Int("hosts", len(summary.Hosts)).
		Msg("Host summary built")

	return summary, nil
}

// Users collects the sessions of every host that is up. Going over MaxUsers
// fails the whole listing.
func (s *Spool) Users(opts UserOptions) (*UserListing, error) {
	now := s.now()

	snaps, err := s.snapshots()
	if err != nil {
		return nil, err
	}

	limit := opts.MaxUsers
	if limit <= 0 {
		limit = DefaultMaxUsers
	}
	idle := idleLimit(opts.IdleThreshold)
	listing := &UserListing{Now: now}

	for name, snap := range snaps {
		c := epoch.Correction(snap.RecvTime, now)
		if s.Liveness.IsDown(epoch.Unwrap(snap.RecvTime, c), now) {
			s.Log.Debug().Str("file", name).Str("hostname", snap.Hostname).Msg("Host down, skipping users")
			continue
		}

		for e := range snap.Entries() {
			if !opts.AllUsers && int64(e.Idle) >= idle {
				continue
			}
			if len(listing.Users) >= limit {
				return nil, fmt.Errorf("%w (limit %d)", ErrTooManyUsers, limit)
			}
			listing.Users = append(listing.Users, UserRecord{
				Hostname:  snap.Hostname,
				Line:      e.Line,
				Name:      e.Name,
				Idle:      int64(e.Idle),
				LoginTime: epoch.Unwrap(e.LoginTime, c),
			})
		}
	}

	return listing, nil
}

// snapshots lists the spool directory and returns a sequence of the snapshots
// in it, keyed by file name. Files that cannot be read or are too short are
// logged and left out.
func (s *Spool) snapshots() (iter.Seq2[string, *whod.Snapshot], error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading spool directory %s: %w", s.Dir, err)
	}

	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return func(yield func(string, *whod.Snapshot) bool) {
		for _, ent := range entries {
			name := ent.Name()
			if !strings.HasPrefix(name, prefix) || ent.IsDir() {
				continue
			}

			buf, err := whod.ReadFile(filepath.Join(s.Dir, name))
			if err != nil {
				s.Log.Warn().Err(err).Str("file", name).Msg("Skipping unreadable snapshot")
				continue
			}

			snap, err := whod.Decode(buf)
			if err != nil {
				s.Log.Debug().Err(err).Str("file", name).Msg("Skipping incomplete snapshot")
				continue
			}

			if !yield(name, snap) {
				return
			}
		}
	}, nil
}

func (s *Spool) now() int64 {
	if s.Now == nil {
		return time.Now().Unix()
	}
	return s.Now().Unix()
}

func idleLimit(d time.Duration) int64 {
	if d <= 0 {
		d = DefaultIdleThreshold
	}
	return int64(d / time.Second)
}
