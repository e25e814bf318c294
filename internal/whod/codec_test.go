package whod

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleSnapshot() *Snapshot {
	return New(Header{
		Version:  Version,
		Type:     TypeStatus,
		SendTime: 1700000000,
		RecvTime: 1700000005,
		Hostname: "alpha",
		LoadAv:   [3]int32{150, 75, 12},
		BootTime: 1699000000,
	}, []Entry{
		{Line: "pts/0", Name: "alice", LoginTime: 1699990000, Idle: 30},
		{Line: "tty1", Name: "bob", LoginTime: 1699980000, Idle: 7200},
	})
}

func collect(s *Snapshot) []Entry {
	var out []Entry
	for e := range s.Entries() {
		out = append(out, e)
	}
	return out
}

func TestLayoutSizes(t *testing.T) {
	if HeaderSize != 60 {
		t.Errorf("HeaderSize: got %d, want 60", HeaderSize)
	}
	if EntrySize != 24 {
		t.Errorf("EntrySize: got %d, want 24", EntrySize)
	}
	if MaxEntries != 42 {
		t.Errorf("MaxEntries: got %d, want 42", MaxEntries)
	}
}

func TestDecode_Header(t *testing.T) {
	s, err := Decode(Encode(sampleSnapshot()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if s.Hostname != "alpha" {
		t.Errorf("Hostname: got %q, want alpha", s.Hostname)
	}
	if s.SendTime != 1700000000 || s.RecvTime != 1700000005 || s.BootTime != 1699000000 {
		t.Errorf("times: got %d/%d/%d", s.SendTime, s.RecvTime, s.BootTime)
	}
	if s.LoadAv != [3]int32{150, 75, 12} {
		t.Errorf("LoadAv: got %v", s.LoadAv)
	}

	entries := collect(s)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "alice" || entries[0].Line != "pts/0" || entries[0].Idle != 30 {
		t.Errorf("entry 0: got %+v", entries[0])
	}
	if entries[1].Name != "bob" || entries[1].LoginTime != 1699980000 {
		t.Errorf("entry 1: got %+v", entries[1])
	}
}

func TestDecode_ShortHeader(t *testing.T) {
	buf := Encode(sampleSnapshot())
	for _, n := range []int{0, 1, HeaderSize - 1} {
		s, err := Decode(buf[:n])
		if !errors.Is(err, ErrShortHeader) {
			t.Errorf("len %d: expected ErrShortHeader, got %v", n, err)
		}
		if s != nil {
			t.Errorf("len %d: expected no snapshot", n)
		}
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	buf := Encode(sampleSnapshot())
	s, err := Decode(buf[:HeaderSize])
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.NumEntries() != 0 {
		t.Errorf("expected 0 entries, got %d", s.NumEntries())
	}
}

func TestDecode_TrailingPartialEntryIgnored(t *testing.T) {
	buf := Encode(sampleSnapshot())
	s, err := Decode(buf[:HeaderSize+EntrySize+EntrySize-1])
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := len(collect(s)); got != 1 {
		t.Errorf("expected 1 entry, got %d", got)
	}
}

func TestDecode_EntriesCapped(t *testing.T) {
	buf := make([]byte, HeaderSize+(MaxEntries+5)*EntrySize)
	s, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.NumEntries() != MaxEntries {
		t.Errorf("expected %d entries, got %d", MaxEntries, s.NumEntries())
	}
}

func TestDecode_UnterminatedFields(t *testing.T) {
	long := New(Header{Hostname: strings.Repeat("h", HostnameSize+10)}, []Entry{
		{Line: "ttyABCDEFGH", Name: "longusername"},
	})
	s, err := Decode(Encode(long))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if s.Hostname != strings.Repeat("h", HostnameSize) {
		t.Errorf("Hostname: got %q", s.Hostname)
	}
	e := collect(s)[0]
	if e.Line != "ttyABCDE" {
		t.Errorf("Line: got %q, want ttyABCDE", e.Line)
	}
	if e.Name != "longuser" {
		t.Errorf("Name: got %q, want longuser", e.Name)
	}
}

func TestField(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("abc\x00\x00\x00"), "abc"},
		{[]byte("abc\x00xyz"), "abc"},
		{[]byte("abcdefgh"), "abcdefgh"},
		{[]byte{0, 'a'}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Field(tt.in); got != tt.want {
			t.Errorf("Field(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntries_StopEarly(t *testing.T) {
	s, _ := Decode(Encode(sampleSnapshot()))
	n := 0
	for range s.Entries() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected iteration to stop after 1, got %d", n)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "whod.small")
	if err := os.WriteFile(small, []byte("tiny"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf, err := ReadFile(small)
	if err != nil {
		t.Fatalf("read small: %v", err)
	}
	if len(buf) != 4 {
		t.Errorf("small: got %d bytes, want 4", len(buf))
	}

	big := filepath.Join(dir, "whod.big")
	if err := os.WriteFile(big, make([]byte, MaxSize+100), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf, err = ReadFile(big)
	if err != nil {
		t.Fatalf("read big: %v", err)
	}
	if len(buf) != MaxSize {
		t.Errorf("big: got %d bytes, want %d", len(buf), MaxSize)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
