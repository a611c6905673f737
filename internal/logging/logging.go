// Package logging 提供全局共享的结构化日志记录器
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志记录，Enabled 返回 false 使调用方跳过格式化
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger 设置 sketchpad 所有包使用的日志记录器
// 默认不输出任何日志；传入 nil 恢复静默
//
// 日志级别约定：
//   - [slog.LevelDebug]: 单次手势细节（坐标、填充像素数）
//   - [slog.LevelInfo]: 生命周期事件（会话创建、导出完成、服务监听）
//   - [slog.LevelWarn]: 可恢复的问题（快照尺寸不匹配、通知失败）
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志记录器，可并发调用
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
