package whod

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrShortHeader is returned when a buffer cannot hold even the fixed header.
// Peers may be caught mid-write, so callers normally skip such files quietly.
var ErrShortHeader = errors.New("snapshot shorter than header")

var order = binary.NativeEndian

// Field returns the text of a fixed-width field. The writer does not promise a
// NUL terminator, so the result ends at the first NUL or at the field width,
// whichever comes first. Nothing outside b is ever read.
func Field(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Decode parses a raw status file. Any trailing partial entry is ignored.
func Decode(buf []byte) (*Snapshot, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(buf))
	}

	s := &Snapshot{
		Header: Header{
			Version:  buf[offVersion],
			Type:     buf[offType],
			SendTime: int32(order.Uint32(buf[offSendTime:])),
			RecvTime: int32(order.Uint32(buf[offRecvTime:])),
			Hostname: Field(buf[offHostname : offHostname+HostnameSize]),
			BootTime: int32(order.Uint32(buf[offBootTime:])),
		},
	}
	for i := range s.LoadAv {
		s.LoadAv[i] = int32(order.Uint32(buf[offLoadAv+4*i:]))
	}

	n := (len(buf) - HeaderSize) / EntrySize
	if n > MaxEntries {
		n = MaxEntries
	}
	s.count = n
	s.entries = buf[HeaderSize : HeaderSize+n*EntrySize]
	return s, nil
}

func decodeEntry(b []byte) Entry {
	return Entry{
		Line:      Field(b[entLine : entLine+LineSize]),
		Name:      Field(b[entName : entName+NameSize]),
		LoginTime: int32(order.Uint32(b[entTime:])),
		Idle:      int32(order.Uint32(b[entIdle:])),
	}
}

// Encode renders the snapshot in the on-disk layout. Strings longer than their
// field are cut to the field width and are then not NUL terminated, the same as
// a real collector would leave them.
func Encode(s *Snapshot) []byte {
	n := s.NumEntries()
	buf := make([]byte, HeaderSize+n*EntrySize)

	buf[offVersion] = s.Version
	buf[offType] = s.Type
	order.PutUint32(buf[offSendTime:], uint32(s.SendTime))
	order.PutUint32(buf[offRecvTime:], uint32(s.RecvTime))
	copy(buf[offHostname:offHostname+HostnameSize], s.Hostname)
	for i, l := range s.LoadAv {
		order.PutUint32(buf[offLoadAv+4*i:], uint32(l))
	}
	order.PutUint32(buf[offBootTime:], uint32(s.BootTime))

	i := 0
	for e := range s.Entries() {
		b := buf[HeaderSize+i*EntrySize : HeaderSize+(i+1)*EntrySize]
		copy(b[entLine:entLine+LineSize], e.Line)
		copy(b[entName:entName+NameSize], e.Name)
		order.PutUint32(b[entTime:], uint32(e.LoginTime))
		order.PutUint32(b[entIdle:], uint32(e.Idle))
		i++
	}
	return buf
}

// ReadFile reads at most MaxSize bytes of a status file. A file shorter than
// that is not an error; the caller decides what a short buffer means.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, MaxSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf[:n], nil
}
