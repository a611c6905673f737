// Package notify 导出完成等事件的桌面通知
package notify

// Notifier 通知接口；Show 返回时通知已发送完毕
type Notifier interface {
	Show(title, message string) error
}

// Discard 不显示任何通知（关闭通知或无人值守时使用）
type Discard struct{}

// Show 直接返回
func (Discard) Show(string, string) error { return nil }
