package spool

// HostRecord is one peer's status with absolute times (Unix seconds).
type HostRecord struct {
	Hostname string   `json:"hostname" msgpack:"hostname"`
	SendTime int64    `json:"send_time" msgpack:"send_time"`
	RecvTime int64    `json:"recv_time" msgpack:"recv_time"`
	BootTime int64    `json:"boot_time" msgpack:"boot_time"`
	LoadAv   [3]int32 `json:"load_av" msgpack:"load_av"`
	Users    int      `json:"users" msgpack:"users"`
}

// Load returns load sample i as a fraction.
func (h HostRecord) Load(i int) float64 {
	return float64(h.LoadAv[i]) / 100
}

// Uptime is how long the host had been up when it sent its snapshot.
func (h HostRecord) Uptime() int64 {
	return h.SendTime - h.BootTime
}

// UserRecord is one qualifying login session.
type UserRecord struct {
	Hostname  string `json:"hostname" msgpack:"hostname"`
	Line      string `json:"line" msgpack:"line"`
	Name      string `json:"name" msgpack:"name"`
	Idle      int64  `json:"idle" msgpack:"idle"`
	LoginTime int64  `json:"login_time" msgpack:"login_time"`
}

// HostSummary is the input to a host-summary report.
type HostSummary struct {
	Hosts []HostRecord `json:"hosts" msgpack:"hosts"`
	// MaxLoad is the largest 1 or 5 minute load of any host, in hundredths.
	MaxLoad int32 `json:"max_load" msgpack:"max_load"`
	Now     int64 `json:"now" msgpack:"now"`
}

// UserListing is the input to a user-listing report.
type UserListing struct {
	Users []UserRecord `json:"users" msgpack:"users"`
	Now   int64        `json:"now" msgpack:"now"`
}
