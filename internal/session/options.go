package session

import (
	"image/color"
	"log/slog"

	"sketchpad/internal/palette"
)

const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultStrokeWidth = 5
)

type options struct {
	width, height int
	background    color.RGBA
	historyLimit  int
	logger        *slog.Logger
	onChange      func(State)
}

func defaultOptions() options {
	return options{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: palette.Background,
	}
}

// Option 创建会话时的可选配置
type Option func(*options)

// WithSize 设置初始画布尺寸
func WithSize(width, height int) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithBackground 设置背景色（同时也是橡皮擦颜色）
func WithBackground(c color.RGBA) Option { return func(o *options) { o.background = c } }

// WithHistoryLimit 限制撤销步数，0 表示不限制
func WithHistoryLimit(limit int) Option { return func(o *options) { o.historyLimit = limit } }

// WithLogger 使用指定日志记录器，默认使用 logging.Logger()
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithOnChange 状态变化后回调（替代界面层的响应式绑定）
func WithOnChange(fn func(State)) Option { return func(o *options) { o.onChange = fn } }
