package monitor

import (
	"context"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	systemctlTimeout = 5 * time.Second
	topProcessCount  = 10
)

// commonServices are probed when no specific service name is requested.
var commonServices = []string{
	"ssh", "sshd", "nginx", "apache2", "httpd", "docker",
	"postgres", "mysql", "redis", "mongodb", "cron", "crond",
}

// runCommand is swapped in tests
var runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// GetServiceStatus probes systemd unit states and summarizes running
// processes. A host without systemctl simply yields no service entries.
func (m *Monitor) GetServiceStatus(ctx context.Context, serviceName string) (ServiceReport, error) {
	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	report := ServiceReport{Services: make(map[string]ServiceState)}

	names := commonServices
	if serviceName != "" {
		names = []string{serviceName}
	}
	for _, name := range names {
		if state, ok := m.probeService(collectCtx, name); ok {
			report.Services[name] = state
		}
	}

	procs, err := m.listProcesses(collectCtx)
	if err != nil {
		log.Debug().Err(err).Msg("Process listing unavailable")
		return report, nil
	}

	report.TotalProcesses = len(procs)
	sort.Slice(procs, func(i, j int) bool {
		return procs[i].CPUPercent > procs[j].CPUPercent
	})
	if len(procs) > topProcessCount {
		procs = procs[:topProcessCount]
	}
	report.TopProcesses = procs

	return report, nil
}

func (m *Monitor) probeService(ctx context.Context, name string) (ServiceState, bool) {
	probeCtx, cancel := context.WithTimeout(ctx, systemctlTimeout)
	defer cancel()

	status, err := runCommand(probeCtx, "systemctl", "is-active", name+".service")
	if err != nil && status == "" {
		status, err = runCommand(probeCtx, "systemctl", "is-active", name)
		if err != nil && status == "" {
			// systemctl missing or the unit does not exist at all
			return ServiceState{}, false
		}
	}

	enabled, err := runCommand(probeCtx, "systemctl", "is-enabled", name+".service")
	if err != nil && enabled == "" {
		enabled = "unknown"
	}

	return ServiceState{
		Status:    status,
		Enabled:   enabled,
		CheckedAt: nowFn(),
	}, true
}

func (m *Monitor) listProcesses(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := processes(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		info := ProcessInfo{PID: p.Pid}

		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Process gone or unreadable; skip it rather than fail the report.
			continue
		}
		info.Name = name

		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			info.Status = strings.Join(status, ",")
		}
		if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = cpu
		}
		if mem, err := p.MemoryPercentWithContext(ctx); err == nil {
			info.MemoryPercent = mem
		}

		infos = append(infos, info)
	}

	return infos, nil
}
