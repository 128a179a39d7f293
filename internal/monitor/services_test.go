package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goproc "github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreServiceStubs(t *testing.T) {
	t.Helper()

	origRunCommand := runCommand
	origProcesses := processes

	t.Cleanup(func() {
		runCommand = origRunCommand
		processes = origProcesses
	})
}

func TestGetServiceStatusSpecificService(t *testing.T) {
	restoreServiceStubs(t)

	var commands [][]string
	runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
		commands = append(commands, append([]string{name}, args...))
		switch args[0] {
		case "is-active":
			return "active", nil
		case "is-enabled":
			return "enabled", nil
		}
		return "", fmt.Errorf("unexpected command %v", args)
	}
	processes = func(ctx context.Context) ([]*goproc.Process, error) {
		return nil, errors.New("listing unavailable")
	}

	report, err := New().GetServiceStatus(context.Background(), "nginx")
	require.NoError(t, err)

	require.Contains(t, report.Services, "nginx")
	assert.Equal(t, "active", report.Services["nginx"].Status)
	assert.Equal(t, "enabled", report.Services["nginx"].Enabled)
	assert.Len(t, report.Services, 1)

	// The .service suffix is probed first.
	require.NotEmpty(t, commands)
	assert.Equal(t, []string{"systemctl", "is-active", "nginx.service"}, commands[0])
}

func TestGetServiceStatusSkipsUnknownUnits(t *testing.T) {
	restoreServiceStubs(t)

	runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("exit status 4")
	}
	processes = func(ctx context.Context) ([]*goproc.Process, error) {
		return []*goproc.Process{}, nil
	}

	report, err := New().GetServiceStatus(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, report.Services)
	assert.Zero(t, report.TotalProcesses)
}

func TestGetServiceStatusEnabledProbeFailure(t *testing.T) {
	restoreServiceStubs(t)

	runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
		if args[0] == "is-active" {
			return "inactive", nil
		}
		return "", errors.New("exit status 1")
	}
	processes = func(ctx context.Context) ([]*goproc.Process, error) {
		return nil, errors.New("listing unavailable")
	}

	report, err := New().GetServiceStatus(context.Background(), "docker")
	require.NoError(t, err)
	require.Contains(t, report.Services, "docker")
	assert.Equal(t, "inactive", report.Services["docker"].Status)
	assert.Equal(t, "unknown", report.Services["docker"].Enabled)
}
