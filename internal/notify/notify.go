package notify

import (
	applog "orderdesk/internal/log"
)

// Notifier delivers a message to a recipient (email or phone). Delivery is
// best-effort: implementations never return an error to the caller.
type Notifier interface {
	Notify(recipient, message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// when no broker is configured, and doubles as the dev-mode delivery channel.
type LogNotifier struct{}

func (LogNotifier) Notify(recipient, message string) {
	applog.Info(nil, "notify.send", map[string]any{
		"recipient": recipient,
		"message":   message,
	})
}
