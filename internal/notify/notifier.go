package notify

import "log/slog"

// Notifier is the seam for the host's notification capability. The extension
// host shows the actual popup; the backend only decides when one is due
// (menu-triggered failures that no viewer initiated).
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier is the default implementation: the notification is surfaced in
// the structured log for the host process to pick up.
type LogNotifier struct{}

func (LogNotifier) Notify(title, message string) {
	slog.Warn("Host notification", "title", title, "message", message)
}
