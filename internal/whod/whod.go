// Package whod defines the rwhod status snapshot layout and its binary codec.
//
// A snapshot is the fixed header of struct whod followed by a variable number of
// session entries. Multi-byte fields use the platform's native byte order, which is
// what the local collector writes into the spool directory.
package whod

import "iter"

// Field widths and offsets of the on-disk layout.
const (
	HostnameSize = 32
	LineSize     = 8
	NameSize     = 8

	offVersion  = 0
	offType     = 1
	offSendTime = 4
	offRecvTime = 8
	offHostname = 12
	offLoadAv   = offHostname + HostnameSize
	offBootTime = offLoadAv + 3*4

	// HeaderSize is the size of the fixed header preceding the session entries.
	HeaderSize = offBootTime + 4

	entLine = 0
	entName = entLine + LineSize
	entTime = entName + NameSize
	entIdle = entTime + 4

	// EntrySize is the size of one session entry.
	EntrySize = entIdle + 4

	// MaxEntries is how many session entries fit in the 1024-byte entry area.
	MaxEntries = 1024 / EntrySize

	// MaxSize is the largest snapshot a reader ever needs to look at.
	MaxSize = HeaderSize + MaxEntries*EntrySize
)

// Protocol constants carried in the header.
const (
	Version    = 1
	TypeStatus = 1
)

// Header is the fixed part of a snapshot. Times are the raw 32-bit values
// exactly as stored; see package epoch for turning them into absolute times.
type Header struct {
	Version  uint8
	Type     uint8
	SendTime int32
	RecvTime int32
	Hostname string
	LoadAv   [3]int32
	BootTime int32
}

// Entry is one logged-in session reported by a peer.
type Entry struct {
	Line      string
	Name      string
	LoginTime int32
	Idle      int32
}

// Snapshot is a decoded status file.
type Snapshot struct {
	Header
	entries []byte
	count   int
	parsed  []Entry
}

// NumEntries reports how many complete session entries the snapshot holds.
func (s *Snapshot) NumEntries() int {
	if s.parsed != nil {
		return len(s.parsed)
	}
	return s.count
}

// Entries yields the session entries in file order. Entries are decoded as they
// are consumed.
func (s *Snapshot) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if s.parsed != nil {
			for _, e := range s.parsed {
				if !yield(e) {
					return
				}
			}
			return
		}
		for i := 0; i < s.count; i++ {
			if !yield(decodeEntry(s.entries[i*EntrySize : (i+1)*EntrySize])) {
				return
			}
		}
	}
}

// New builds a snapshot from already-typed values, as a writer would.
func New(h Header, entries []Entry) *Snapshot {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return &Snapshot{Header: h, parsed: append([]Entry{}, entries...)}
}
