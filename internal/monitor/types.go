package monitor

import "time"

// SystemInfo is a point-in-time snapshot of the host.
type SystemInfo struct {
	Hostname        string     `json:"hostname"`
	Platform        string     `json:"platform"`
	PlatformVersion string     `json:"platform_version,omitempty"`
	KernelVersion   string     `json:"kernel_version,omitempty"`
	Architecture    string     `json:"architecture"`
	CPUCount        int        `json:"cpu_count"`
	CPUPercent      float64    `json:"cpu_percent"`
	Memory          MemoryInfo `json:"memory"`
	Disk            DiskInfo   `json:"disk"`
	BootTime        time.Time  `json:"boot_time"`
	Uptime          string     `json:"uptime"`
}

// MemoryInfo describes virtual memory usage
type MemoryInfo struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Free      uint64  `json:"free"`
	Percent   float64 `json:"percent"`
}

// DiskInfo describes root filesystem usage
type DiskInfo struct {
	Path    string  `json:"path"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

// ServiceState is the probed state of a single systemd unit
type ServiceState struct {
	Status    string    `json:"status"`
	Enabled   string    `json:"enabled"`
	CheckedAt time.Time `json:"checked_at"`
}

// ProcessInfo is a single running process
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	Status        string  `json:"status,omitempty"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float32 `json:"memory_percent"`
}

// ServiceReport bundles service states with a process overview
type ServiceReport struct {
	Services       map[string]ServiceState `json:"services"`
	TotalProcesses int                     `json:"total_processes"`
	TopProcesses   []ProcessInfo           `json:"top_processes"`
}

// SessionInfo is one active login session
type SessionInfo struct {
	Terminal string    `json:"terminal"`
	Host     string    `json:"host,omitempty"`
	Started  time.Time `json:"started"`
}

// SystemUser is an account parsed from /etc/passwd
type SystemUser struct {
	Username string `json:"username"`
	UID      string `json:"uid"`
	GID      string `json:"gid"`
	Home     string `json:"home"`
	Shell    string `json:"shell,omitempty"`
}

// UserReport bundles sessions with known system accounts
type UserReport struct {
	ActiveSessions   map[string][]SessionInfo `json:"active_sessions"`
	TotalActiveUsers int                      `json:"total_active_users"`
	SystemUsers      []SystemUser             `json:"system_users"`
	CurrentUser      string                   `json:"current_user"`
	CollectedAt      time.Time                `json:"collected_at"`
}

// LogBundle is a tail of one system log
type LogBundle struct {
	LogType        string    `json:"log_type"`
	LogFile        string    `json:"log_file,omitempty"`
	LinesRequested int       `json:"lines_requested"`
	LinesReturned  int       `json:"lines_returned"`
	Lines          []string  `json:"logs"`
	CollectedAt    time.Time `json:"collected_at"`
}

// InterfaceInfo describes one network interface
type InterfaceInfo struct {
	Name         string   `json:"name"`
	MTU          int      `json:"mtu"`
	HardwareAddr string   `json:"hardware_addr,omitempty"`
	Flags        []string `json:"flags,omitempty"`
	Addresses    []string `json:"addresses"`
}

// ConnectionInfo describes one network connection
type ConnectionInfo struct {
	Family uint32 `json:"family"`
	Type   uint32 `json:"type"`
	Laddr  string `json:"laddr,omitempty"`
	Raddr  string `json:"raddr,omitempty"`
	Status string `json:"status,omitempty"`
	PID    int32  `json:"pid,omitempty"`
}

// IOCounters aggregates network IO totals
type IOCounters struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
	ErrIn       uint64 `json:"err_in"`
	ErrOut      uint64 `json:"err_out"`
}

// NetworkReport bundles interfaces, connections, and IO totals
type NetworkReport struct {
	Interfaces  []InterfaceInfo  `json:"interfaces"`
	Connections []ConnectionInfo `json:"connections"`
	Note        string           `json:"note,omitempty"`
	IOCounters  IOCounters       `json:"io_counters"`
	CollectedAt time.Time        `json:"collected_at"`
}
