package sink

import (
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/countdown"
)

// Toast display types.
const (
	ToastInfo    = "info"
	ToastSuccess = "success"
	ToastWarning = "warning"
)

// LogToastSink records local messages in the structured log. The HTTP layer
// returns the message to the caller's UI; this sink keeps the server-side
// trail. When a toast carries a countdown duration, the sink runs the timer
// and logs the zero crossing, mirroring what the client-side display shows.
type LogToastSink struct {
	logger logger.Logger
	timer  *countdown.Timer
}

func NewLogToastSink(log logger.Logger) *LogToastSink {
	return &LogToastSink{
		logger: log,
		timer:  countdown.New(),
	}
}

func (s *LogToastSink) Show(toastType, title, message string, durationSeconds int) {
	s.logger.Info("toast shown", map[string]interface{}{
		"type":     toastType,
		"title":    title,
		"message":  message,
		"duration": durationSeconds,
	})

	if durationSeconds > 0 {
		s.timer.Start(durationSeconds, nil, func() {
			s.logger.Info("toast countdown finished", map[string]interface{}{
				"title":    title,
				"duration": durationSeconds,
			})
		})
	}
}
