// Package monitor collects local system state: host metrics, services,
// users, logs, and network information. Collection is synchronous, bounded
// by timeouts, and degrades to partial data instead of failing a request.
package monitor

import (
	"context"
	"fmt"
	"time"

	gocpu "github.com/shirou/gopsutil/v4/cpu"
	godisk "github.com/shirou/gopsutil/v4/disk"
	gohost "github.com/shirou/gopsutil/v4/host"
	gomem "github.com/shirou/gopsutil/v4/mem"
	gonet "github.com/shirou/gopsutil/v4/net"
	goproc "github.com/shirou/gopsutil/v4/process"
)

const collectTimeout = 10 * time.Second

// System call wrappers for testing
var (
	hostInfo       = gohost.InfoWithContext
	hostUsers      = gohost.UsersWithContext
	cpuCounts      = gocpu.CountsWithContext
	cpuPercent     = gocpu.PercentWithContext
	virtualMemory  = gomem.VirtualMemoryWithContext
	diskUsage      = godisk.UsageWithContext
	netInterfaces  = gonet.InterfacesWithContext
	netConnections = gonet.ConnectionsWithContext
	netIOCounters  = gonet.IOCountersWithContext
	processes      = goproc.ProcessesWithContext
	nowFn          = time.Now
)

// Monitor answers the read-only queries that back the tool surface.
type Monitor struct{}

// New creates a Monitor
func New() *Monitor {
	return &Monitor{}
}

// GetSystemInfo gathers a host snapshot: identity, CPU, memory, root disk,
// boot time, and uptime. Individual probe failures leave their fields zero.
func (m *Monitor) GetSystemInfo(ctx context.Context) (SystemInfo, error) {
	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	info, err := hostInfo(collectCtx)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("host info: %w", err)
	}

	sys := SystemInfo{
		Hostname:        info.Hostname,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Architecture:    info.KernelArch,
	}

	bootTime := time.Unix(int64(info.BootTime), 0)
	sys.BootTime = bootTime
	sys.Uptime = nowFn().Sub(bootTime).Truncate(time.Second).String()

	if count, err := cpuCounts(collectCtx, true); err == nil {
		sys.CPUCount = count
	}
	if percentages, err := cpuPercent(collectCtx, time.Second, false); err == nil && len(percentages) > 0 {
		sys.CPUPercent = clampPercent(percentages[0])
	}

	if memStats, err := virtualMemory(collectCtx); err == nil {
		sys.Memory = MemoryInfo{
			Total:     memStats.Total,
			Available: memStats.Available,
			Used:      memStats.Used,
			Free:      memStats.Free,
			Percent:   memStats.UsedPercent,
		}
	}

	if usage, err := diskUsage(collectCtx, "/"); err == nil {
		sys.Disk = DiskInfo{
			Path:    "/",
			Total:   usage.Total,
			Used:    usage.Used,
			Free:    usage.Free,
			Percent: usage.UsedPercent,
		}
	}

	return sys, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
