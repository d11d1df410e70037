//go:build !windows

package tray

import (
	"errors"

	"go.uber.org/zap"
)

// ErrUnsupported is returned on platforms without a tray implementation
var ErrUnsupported = errors.New("system tray is only supported on Windows")

// App represents the system tray application (stub for non-Windows platforms)
type App struct{}

// NewApp is not supported on this platform
func NewApp(session *Session, logger *zap.Logger) (*App, error) {
	return nil, ErrUnsupported
}

// Run does nothing on non-Windows platforms
func (a *App) Run() error {
	return ErrUnsupported
}

// Stop does nothing on non-Windows platforms
func (a *App) Stop() {
}
