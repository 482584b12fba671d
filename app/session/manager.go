package session

import (
	"context"
	"sync"

	"github.com/frabrice/Emodocar-web/app/models"
	"github.com/frabrice/Emodocar-web/app/notifier"
	"github.com/frabrice/Emodocar-web/pkg/log"
)

// Manager keeps the backend bearer token and the signed-in admin in memory.
// Nothing is persisted: a restart means logging in again.
type Manager struct {
	Notifier notifier.Service

	mu    sync.Mutex
	token string
	user  *models.AdminUser
}

func (m *Manager) SetCredentials(token string, user *models.AdminUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) User() *models.AdminUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Expire terminates the session after the backend rejected our token. The
// admin has to log in again.
func (m *Manager) Expire(ctx context.Context, reason string) {
	m.Clear()
	log.Warnw("session expired", "reason", reason)
	if m.Notifier != nil {
		m.Notifier.Notify(ctx, models.NotificationError, "Session expired: "+reason)
	}
}

func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
}
