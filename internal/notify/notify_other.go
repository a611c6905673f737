//go:build !windows

package notify

import "sketchpad/internal/logging"

// logNotifier 非 Windows 平台把通知写入日志
type logNotifier struct{}

// NewNotifier 创建通知器
func NewNotifier() Notifier {
	return logNotifier{}
}

// Show 以 Info 级别记录通知内容
func (logNotifier) Show(title, message string) error {
	logging.Logger().Info(title, "message", message)
	return nil
}
