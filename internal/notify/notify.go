package notify

import "github.com/pawlingo/pawlingo-server/internal/logger"

// Severity tags a notification for the client's toast styling
type Severity string

const (
	SeverityNeutral     Severity = "neutral"
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Notifier is the fire-and-forget notification boundary. Every
// user-visible success or failure outcome goes through it; callers
// never consume a return value.
type Notifier interface {
	Notify(title, description string, severity Severity)
}

// LogNotifier writes notifications to the component logger
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a notifier backed by the given component name
func NewLogNotifier(component string) *LogNotifier {
	return &LogNotifier{log: logger.New(component)}
}

func (n *LogNotifier) Notify(title, description string, severity Severity) {
	switch severity {
	case SeverityDestructive:
		n.log.Error("%s: %s", title, description)
	default:
		n.log.Info("%s: %s", title, description)
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(title, description string, severity Severity) {
	for _, n := range m {
		n.Notify(title, description, severity)
	}
}
