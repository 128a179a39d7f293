package monitor

import (
	"context"
	"os"
	"strings"
	"time"
)

// File access wrappers for testing
var (
	readFile = os.ReadFile
	getenv   = os.Getenv
)

// GetUserInfo reports active login sessions and known system accounts.
// Unreadable /etc/passwd degrades to an empty account list.
func (m *Monitor) GetUserInfo(ctx context.Context) (UserReport, error) {
	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	report := UserReport{
		ActiveSessions: make(map[string][]SessionInfo),
		CurrentUser:    getenv("USER"),
		CollectedAt:    nowFn(),
	}
	if report.CurrentUser == "" {
		report.CurrentUser = "unknown"
	}

	if sessions, err := hostUsers(collectCtx); err == nil {
		for _, session := range sessions {
			report.ActiveSessions[session.User] = append(report.ActiveSessions[session.User], SessionInfo{
				Terminal: session.Terminal,
				Host:     session.Host,
				Started:  time.Unix(int64(session.Started), 0),
			})
		}
	}
	report.TotalActiveUsers = len(report.ActiveSessions)

	report.SystemUsers = parsePasswd()

	return report, nil
}

func parsePasswd() []SystemUser {
	data, err := readFile("/etc/passwd")
	if err != nil {
		return nil
	}

	var users []SystemUser
	for _, line := range strings.Split(string(data), "\n") {
		parts := strings.Split(strings.TrimSpace(line), ":")
		if len(parts) < 7 {
			continue
		}
		users = append(users, SystemUser{
			Username: parts[0],
			UID:      parts[2],
			GID:      parts[3],
			Home:     parts[5],
			Shell:    parts[6],
		})
	}
	return users
}
