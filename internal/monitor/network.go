package monitor

import (
	"context"
	"fmt"
)

const maxConnections = 20

// GetNetworkInfo reports interfaces, a bounded set of connections, and IO
// totals. Permission-denied connection listing degrades to a note.
func (m *Monitor) GetNetworkInfo(ctx context.Context) (NetworkReport, error) {
	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	report := NetworkReport{CollectedAt: nowFn()}

	interfaces, err := netInterfaces(collectCtx)
	if err != nil {
		return NetworkReport{}, fmt.Errorf("network interfaces: %w", err)
	}
	for _, iface := range interfaces {
		info := InterfaceInfo{
			Name:         iface.Name,
			MTU:          iface.MTU,
			HardwareAddr: iface.HardwareAddr,
			Flags:        iface.Flags,
			Addresses:    make([]string, 0, len(iface.Addrs)),
		}
		for _, addr := range iface.Addrs {
			info.Addresses = append(info.Addresses, addr.Addr)
		}
		report.Interfaces = append(report.Interfaces, info)
	}

	conns, err := netConnections(collectCtx, "all")
	if err != nil {
		report.Note = "connection details unavailable; run with elevated privileges"
	} else {
		if len(conns) > maxConnections {
			conns = conns[:maxConnections]
		}
		for _, conn := range conns {
			info := ConnectionInfo{
				Family: conn.Family,
				Type:   conn.Type,
				Status: conn.Status,
				PID:    conn.Pid,
			}
			if conn.Laddr.IP != "" {
				info.Laddr = fmt.Sprintf("%s:%d", conn.Laddr.IP, conn.Laddr.Port)
			}
			if conn.Raddr.IP != "" {
				info.Raddr = fmt.Sprintf("%s:%d", conn.Raddr.IP, conn.Raddr.Port)
			}
			report.Connections = append(report.Connections, info)
		}
	}

	if counters, err := netIOCounters(collectCtx, false); err == nil && len(counters) > 0 {
		report.IOCounters = IOCounters{
			BytesSent:   counters[0].BytesSent,
			BytesRecv:   counters[0].BytesRecv,
			PacketsSent: counters[0].PacketsSent,
			PacketsRecv: counters[0].PacketsRecv,
			ErrIn:       counters[0].Errin,
			ErrOut:      counters[0].Errout,
		}
	}

	return report, nil
}
