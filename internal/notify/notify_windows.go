//go:build windows

package notify

import (
	"github.com/go-toast/toast"

	"sketchpad/internal/logging"
)

// WindowsNotifier Windows toast 通知
type WindowsNotifier struct {
	appID string
}

// NewNotifier 创建通知器
func NewNotifier() Notifier {
	return &WindowsNotifier{
		appID: "Sketchpad",
	}
}

// Show 显示通知；发送完成后才返回，调用方随后退出进程也不会丢失
func (n *WindowsNotifier) Show(title, message string) error {
	notification := toast.Notification{
		AppID:   n.appID,
		Title:   title,
		Message: message,
	}
	if err := notification.Push(); err != nil {
		logging.Logger().Warn("通知失败", "title", title, "err", err)
		return err
	}
	return nil
}
