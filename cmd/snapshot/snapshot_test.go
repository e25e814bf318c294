package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"rwhotools/internal/whod"
)

func testSnapshot() *whod.Snapshot {
	return whod.New(whod.Header{
		Version:  whod.Version,
		Type:     whod.TypeStatus,
		SendTime: 1700000000,
		Hostname: "alpha",
		LoadAv:   [3]int32{25, 10, 5},
		BootTime: 1699000000,
	}, []whod.Entry{{Name: "alice", Line: "pts/0", LoginTime: 1699990000}})
}

func TestWrite_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "whod.alpha")

	var stdout bytes.Buffer
	if err := Write(path, testSnapshot(), &stdout); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should go to stdout, got %d bytes", stdout.Len())
	}

	buf, err := whod.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	snap, err := whod.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Hostname != "alpha" || snap.NumEntries() != 1 {
		t.Errorf("unexpected snapshot: %+v", snap.Header)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries in dir", len(entries))
	}
}

func TestWrite_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whod.alpha")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Write(path, testSnapshot(), nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, whod.Encode(testSnapshot())) {
		t.Error("file was not replaced with the encoded snapshot")
	}
}

func TestWrite_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	if err := Write("", testSnapshot(), &stdout); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), whod.Encode(testSnapshot())) {
		t.Error("stdout does not hold the encoded snapshot")
	}
}

func TestWrite_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "whod.alpha")
	if err := Write(path, testSnapshot(), nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
