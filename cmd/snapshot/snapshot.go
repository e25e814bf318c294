// Package snapshot writes the local host's status in the spool file format.
package snapshot

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"rwhotools/internal/cli"
	"rwhotools/internal/sysinfo"
	"rwhotools/internal/whod"
	"rwhotools/pkg/config"
	"rwhotools/pkg/logger"
)

const usage = "usage: rwhotools snapshot [-o FILE]"

// Run collects the local status and writes it to -o, or to stdout.
func Run(configPath string, args []string, stdout io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.LogLevel)

	var out string
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.StringVar(&out, "o", "", "write to FILE instead of stdout")
	if err := cli.Parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stdout, usage)
			return nil
		}
		return fmt.Errorf("%w\n%s", err, usage)
	}

	snap, err := sysinfo.Collect(time.Now())
	if err != nil {
		return fmt.Errorf("collecting local status: %w", err)
	}

	if err := Write(out, snap, stdout); err != nil {
		return err
	}

	log.Info().
		Str("hostname", snap.Hostname).
		Int("sessions", snap.NumEntries()).
		Str("output", out).
		Msg("Snapshot written")
	return nil
}

// Write encodes snap to path, or to stdout when path is empty. A file is
// written under a temporary name and renamed, so readers never see it half
// written.
func Write(path string, snap *whod.Snapshot, stdout io.Writer) error {
	data := whod.Encode(snap)
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}
