package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"rwhotools/internal/liveness"
	"rwhotools/internal/spool"
)

// Format is an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts text, json or msgpack, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatMsgpack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or msgpack)", s)
}

// HostEntry is a host record with its liveness as of the report's reference time.
type HostEntry struct {
	spool.HostRecord `msgpack:",inline"`
	Down             bool  `json:"down" msgpack:"down"`
	Since            int64 `json:"since" msgpack:"since"`
}

// HostExport is the machine-readable host summary.
type HostExport struct {
	Now   int64       `json:"now" msgpack:"now"`
	Hosts []HostEntry `json:"hosts" msgpack:"hosts"`
}

// NewHostExport annotates each host with its up/down state. Since is the uptime
// for an up host and the time since the last snapshot for a down one.
func NewHostExport(summary *spool.HostSummary, live liveness.Classifier) HostExport {
	out := HostExport{Now: summary.Now, Hosts: make([]HostEntry, 0, len(summary.Hosts))}
	for _, h := range summary.Hosts {
		e := HostEntry{HostRecord: h, Since: h.Uptime()}
		if live.IsDown(h.RecvTime, summary.Now) {
			e.Down = true
			e.Since = live.Since(h.RecvTime, summary.Now)
		}
		out.Hosts = append(out.Hosts, e)
	}
	return out
}

// Encode writes v as JSON or MessagePack.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
	default:
		return fmt.Errorf("format %q is not a data encoding", format)
	}
	return nil
}
