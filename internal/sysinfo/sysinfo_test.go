package sysinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"rwhotools/internal/whod"
)

func TestCollect(t *testing.T) {
	now := time.Now()
	snap, err := Collect(now)
	if err != nil {
		t.Skipf("host facts unavailable: %v", err)
	}

	// Hostname should always be available
	if snap.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if snap.SendTime != int32(now.Unix()) {
		t.Errorf("SendTime: got %d, want %d", snap.SendTime, now.Unix())
	}
	if int64(snap.BootTime) > now.Unix() {
		t.Errorf("boot time %d is in the future", snap.BootTime)
	}

	decoded, err := whod.Decode(whod.Encode(snap))
	if err != nil {
		t.Fatalf("collected snapshot does not decode: %v", err)
	}
	if decoded.NumEntries() != snap.NumEntries() {
		t.Errorf("entries: got %d, want %d", decoded.NumEntries(), snap.NumEntries())
	}

	t.Logf("Collected: host=%s load=%v sessions=%d", snap.Hostname, snap.LoadAv, snap.NumEntries())
}

func TestSessions(t *testing.T) {
	now := time.Unix(1700000000, 0)
	users := []host.UserStat{
		{User: "alice", Terminal: "pts/0", Started: 1699990000},
		{User: "", Terminal: "pts/1"},
		{User: "bob", Terminal: ""},
		{User: "carol", Terminal: "tty1", Started: 1699000000},
	}
	idle := func(line string, _ time.Time) time.Duration {
		if line == "tty1" {
			return 90 * time.Minute
		}
		return 5 * time.Second
	}

	entries := Sessions(users, now, idle)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != (whod.Entry{Line: "pts/0", Name: "alice", LoginTime: 1699990000, Idle: 5}) {
		t.Errorf("entry 0: got %+v", entries[0])
	}
	if entries[1].Name != "carol" || entries[1].Idle != 5400 {
		t.Errorf("entry 1: got %+v", entries[1])
	}
}

func TestSessions_Capped(t *testing.T) {
	users := make([]host.UserStat, whod.MaxEntries+10)
	for i := range users {
		users[i] = host.UserStat{User: "u", Terminal: "pts/x"}
	}
	entries := Sessions(users, time.Now(), func(string, time.Time) time.Duration { return 0 })
	if len(entries) != whod.MaxEntries {
		t.Errorf("expected %d entries, got %d", whod.MaxEntries, len(entries))
	}
}

func TestTTYIdle(t *testing.T) {
	dir := t.TempDir()
	tty := filepath.Join(dir, "tty9")
	if err := os.WriteFile(tty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	then := time.Now().Add(-10 * time.Minute)
	if err := os.Chtimes(tty, then, then); err != nil {
		t.Fatal(err)
	}

	got := TTYIdle(tty, then.Add(10*time.Minute))
	if got < 9*time.Minute || got > 11*time.Minute {
		t.Errorf("idle: got %v, want ~10m", got)
	}
	if TTYIdle(filepath.Join(dir, "missing"), time.Now()) != 0 {
		t.Error("missing terminal should report zero idle")
	}
}
