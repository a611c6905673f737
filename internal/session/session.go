// Package session 绘图会话：持有画布、历史、选区与视图，
// 把指针事件和工具/样式参数分派给各个底层组件
package session

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"sketchpad/internal/fill"
	"sketchpad/internal/history"
	"sketchpad/internal/logging"
	"sketchpad/internal/palette"
	"sketchpad/internal/raster"
	"sketchpad/internal/selection"
	"sketchpad/internal/surface"
	"sketchpad/internal/view"

	"github.com/google/uuid"
)

var (
	// ErrInvalidWidth 线宽不是正数
	ErrInvalidWidth = errors.New("session: 线宽必须为正数")
	// ErrUnknownTool 无法识别的工具标识
	ErrUnknownTool = errors.New("session: 未知工具")
)

// Session 单个画布的绘图会话，非并发安全
type Session struct {
	id        string
	surface   *surface.Surface
	history   *history.History
	selection *selection.Controller
	view      *view.Transform
	log       *slog.Logger
	onChange  func(State)

	tool  Tool
	style raster.Style
	mode  Mode

	// 当前手势
	start     image.Point
	last      image.Point
	preStroke *surface.Snapshot // 按下时的画布；图形预览从它重画
}

// New 创建会话，默认 800x600 白色画布、黑色画笔、线宽 5
func New(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	surf, err := surface.New(o.width, o.height, o.background)
	if err != nil {
		return nil, fmt.Errorf("session: 创建画布失败: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.Logger()
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		surface:   surf,
		history:   history.New(o.historyLimit),
		selection: selection.New(surf),
		view:      view.New(),
		log:       logger.With("session", id),
		onChange:  o.onChange,
		tool:      ToolBrush,
		style:     raster.Style{Color: palette.Black, Width: DefaultStrokeWidth},
	}
	s.log.Info("会话已创建", "width", o.width, "height", o.height, "historyLimit", o.historyLimit)
	return s, nil
}

// ID 会话唯一标识
func (s *Session) ID() string { return s.id }

// Surface 画布（只读使用；修改请通过会话方法）
func (s *Session) Surface() *surface.Surface { return s.surface }

// View 视图变换
func (s *Session) View() *view.Transform { return s.view }

// Tool 当前工具
func (s *Session) Tool() Tool { return s.tool }

// Style 当前样式
func (s *Session) Style() raster.Style { return s.style }

// Mode 当前交互模式
func (s *Session) Mode() Mode { return s.mode }

// ---------- 工具与样式 ----------

// SetTool 切换工具；进行中的手势先结束，浮动选区先提交
func (s *Session) SetTool(t Tool) error {
	if t < 0 || t >= ToolCount {
		return fmt.Errorf("%w: %d", ErrUnknownTool, int(t))
	}
	s.endGesture()
	if t != ToolSelect {
		s.commitSelection()
	}
	s.tool = t
	s.log.Debug("切换工具", "tool", t)
	s.changed()
	return nil
}

// SetColor 解析颜色字符串，无法解析时为不透明黑色
func (s *Session) SetColor(c string) {
	s.SetColorRGBA(palette.ParseColor(c))
}

// SetColorRGBA 直接设置颜色
func (s *Session) SetColorRGBA(c color.RGBA) {
	s.style.Color = c
	s.changed()
}

// SetStrokeWidth 设置线宽，必须为正数
func (s *Session) SetStrokeWidth(w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, w)
	}
	s.style.Width = w
	s.changed()
	return nil
}

// SetFilled 图形是否填充
func (s *Session) SetFilled(filled bool) {
	s.style.Filled = filled
	s.changed()
}

// ---------- 指针事件 ----------

// HandleEvent 处理一个指针事件；离开画布等同于抬起
func (s *Session) HandleEvent(ev Event) error {
	switch ev.Type {
	case EventDown:
		return s.pointerDown(ev.X, ev.Y)
	case EventMove:
		return s.pointerMove(ev.X, ev.Y)
	case EventUp, EventLeave:
		return s.pointerUp()
	default:
		return fmt.Errorf("session: 未知事件类型 %v", ev.Type)
	}
}

// HandleScreenEvent 处理屏幕坐标的指针事件：平移模式下直接作为平移增量，
// 否则经视图逆变换换算为画布坐标（向下取整）
func (s *Session) HandleScreenEvent(typ EventType, x, y float64) error {
	if s.view.PanMode() {
		return s.HandleEvent(Event{Type: typ, X: int(math.Floor(x)), Y: int(math.Floor(y))})
	}
	cx, cy, err := s.view.ScreenToCanvas(x, y)
	if err != nil {
		return err
	}
	return s.HandleEvent(Event{Type: typ, X: int(math.Floor(cx)), Y: int(math.Floor(cy))})
}

func (s *Session) pointerDown(x, y int) error {
	if s.mode != ModeIdle {
		s.log.Debug("忽略重复按下", "mode", s.mode, "x", x, "y", y)
		return nil
	}
	p := image.Pt(x, y)

	if s.view.PanMode() {
		s.mode = ModePanning
		s.last = p
		s.changed()
		return nil
	}

	switch s.tool {
	case ToolSelect:
		return s.selectDown(x, y)
	case ToolFill:
		return s.fillAt(x, y)
	}

	snap := s.surface.Snapshot()
	s.history.SaveState(snap)
	s.mode = ModeDrawing
	s.start, s.last = p, p
	s.preStroke = snap
	s.log.Debug("开始绘制", "tool", s.tool, "x", x, "y", y)
	s.changed()
	return nil
}

func (s *Session) pointerMove(x, y int) error {
	p := image.Pt(x, y)
	switch s.mode {
	case ModePanning:
		s.view.Pan(float64(p.X-s.last.X), float64(p.Y-s.last.Y))
		s.last = p
		s.changed()
	case ModeDrawing:
		return s.drawTo(p)
	case ModeSelecting:
		return s.selection.Update(x, y)
	case ModeDragging:
		return s.selection.Drag(x, y)
	}
	return nil
}

func (s *Session) pointerUp() error {
	var err error
	switch s.mode {
	case ModeIdle:
		return nil
	case ModeDrawing:
		// 没有改动像素的手势（只点击不移动等）不保留历史
		if s.preStroke != nil && s.surface.Snapshot().Equal(s.preStroke) {
			s.history.Discard()
		}
		s.preStroke = nil
	case ModeSelecting:
		err = s.finishSelection()
	case ModeDragging:
		s.selection.EndDragging()
	}
	s.mode = ModeIdle
	s.changed()
	return err
}

// endGesture 命令打断手势时按抬起处理
func (s *Session) endGesture() {
	if s.mode == ModeIdle {
		return
	}
	if err := s.pointerUp(); err != nil {
		s.log.Warn("结束手势失败", "err", err)
	}
}

func (s *Session) drawTo(p image.Point) error {
	switch s.tool {
	case ToolBrush:
		raster.Stroke(s.surface, s.last, p, s.style)
	case ToolEraser:
		raster.Erase(s.surface, s.last, p, s.style.Width, s.surface.Background())
	default:
		// 每次移动都从按下时的底图重画，预览不累积
		if err := s.surface.Restore(s.preStroke); err != nil {
			return err
		}
		s.drawShape(s.start, p)
	}
	s.last = p
	return nil
}

func (s *Session) drawShape(start, end image.Point) {
	switch s.tool {
	case ToolLine:
		raster.Line(s.surface, start, end, s.style)
	case ToolRectangle:
		raster.Rectangle(s.surface, start, end, s.style)
	case ToolCircle:
		raster.Circle(s.surface, start, end, s.style)
	case ToolTriangle:
		raster.Triangle(s.surface, start, end, s.style)
	case ToolPentagon:
		raster.Pentagon(s.surface, start, end, s.style)
	}
}

// fillAt 油漆桶在按下时执行一次；没有像素变化时不记录历史
func (s *Session) fillAt(x, y int) error {
	snap := s.surface.Snapshot()
	stats, err := fill.FloodFill(s.surface, x, y, s.style.Color)
	if err != nil {
		return err
	}
	if stats.Pixels > 0 {
		s.history.SaveState(snap)
		s.changed()
	}
	s.log.Debug("填充完成", "x", x, "y", y, "pixels", stats.Pixels, "runs", stats.Runs)
	return nil
}

// ---------- 选区 ----------

func (s *Session) selectDown(x, y int) error {
	if s.selection.State() == selection.Cropped && s.selection.StartDragging(x, y) {
		s.mode = ModeDragging
		s.changed()
		return nil
	}
	s.commitSelection()
	s.selection.Start(x, y)
	s.mode = ModeSelecting
	s.changed()
	return nil
}

// finishSelection 结束框选并裁剪；选区过小时直接放弃，不记录历史
func (s *Session) finishSelection() error {
	area, err := s.selection.End()
	if err != nil {
		return err
	}
	original := s.selection.Original()
	if _, err := s.selection.Crop(); err != nil {
		s.selection.Reset()
		if errors.Is(err, selection.ErrTooSmall) {
			s.log.Debug("选区过小，已忽略", "width", area.Width(), "height", area.Height())
			return nil
		}
		return err
	}
	s.history.SaveState(original)
	s.log.Debug("选区已裁剪", "rect", area.Rect())
	return nil
}

// commitSelection 放下浮动对象
func (s *Session) commitSelection() {
	if s.selection.Commit() {
		s.log.Debug("选区已提交")
	}
}

// CancelSelection 丢弃浮动对象并恢复框选前的画布
func (s *Session) CancelSelection() error {
	s.endGesture()
	if s.selection.Object() == nil {
		return nil
	}
	if err := s.selection.Cancel(); err != nil {
		return err
	}
	// 裁剪时记录的历史项对应的操作已被撤回
	s.history.Discard()
	s.changed()
	return nil
}

// ---------- 命令 ----------

// Undo 撤销一步；没有可撤销内容时返回 false
func (s *Session) Undo() (bool, error) {
	s.endGesture()
	s.commitSelection()
	prev, ok := s.history.Undo(s.surface.Snapshot())
	if !ok {
		return false, nil
	}
	if err := s.surface.Restore(prev); err != nil {
		s.log.Warn("撤销失败", "err", err)
		return false, fmt.Errorf("session: 撤销失败: %w", err)
	}
	s.changed()
	return true, nil
}

// Redo 重做一步；没有可重做内容时返回 false
func (s *Session) Redo() (bool, error) {
	s.endGesture()
	s.commitSelection()
	next, ok := s.history.Redo(s.surface.Snapshot())
	if !ok {
		return false, nil
	}
	if err := s.surface.Restore(next); err != nil {
		s.log.Warn("重做失败", "err", err)
		return false, fmt.Errorf("session: 重做失败: %w", err)
	}
	s.changed()
	return true, nil
}

// CanUndo 是否可以撤销
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo 是否可以重做
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Clear 用背景色清空画布并清空历史
func (s *Session) Clear() {
	s.endGesture()
	s.selection.Reset()
	s.surface.Clear()
	s.history.Clear()
	s.log.Info("画布已清空")
	s.changed()
}

// SetSize 调整画布尺寸；内容与历史都会丢弃
func (s *Session) SetSize(width, height int) error {
	s.endGesture()
	if err := s.surface.Resize(width, height); err != nil {
		return err
	}
	s.selection.Reset()
	s.history.Clear()
	s.log.Info("画布尺寸已修改", "width", width, "height", height)
	s.changed()
	return nil
}

// ExportSnapshot 返回当前像素的独立副本；框选中的选框不会被导出
func (s *Session) ExportSnapshot() *image.RGBA {
	if s.mode == ModeSelecting && s.selection.Original() != nil {
		return s.selection.Original().Image()
	}
	return s.surface.Export()
}

// ---------- 视图 ----------

// SetZoom 设置缩放百分比 [25, 500]
func (s *Session) SetZoom(percent float64) {
	s.view.SetZoom(percent)
	s.changed()
}

// ZoomIn 放大一档
func (s *Session) ZoomIn() {
	s.view.ZoomIn()
	s.changed()
}

// ZoomOut 缩小一档
func (s *Session) ZoomOut() {
	s.view.ZoomOut()
	s.changed()
}

// ResetZoom 缩放与平移复位
func (s *Session) ResetZoom() {
	s.view.Reset()
	s.changed()
}

// Center 平移复位
func (s *Session) Center() {
	s.view.Center()
	s.changed()
}

// SetPanMode 开关平移模式；与绘图互斥，切换时结束当前手势
func (s *Session) SetPanMode(enabled bool) {
	s.endGesture()
	s.view.SetPanMode(enabled)
	s.changed()
}

// ---------- 状态输出 ----------

// State 当前状态快照
func (s *Session) State() State {
	panX, panY := s.view.Offset()
	undo, redo := s.history.Depth()
	m := s.view.Matrix()
	return State{
		Tool:         s.tool,
		Color:        palette.Format(s.style.Color),
		Width:        s.style.Width,
		Filled:       s.style.Filled,
		Mode:         s.mode,
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
		UndoDepth:    undo,
		RedoDepth:    redo,
		ZoomPercent:  s.view.ZoomPercent(),
		PanMode:      s.view.PanMode(),
		PanX:         panX,
		PanY:         panY,
		Transform:    [6]float64{m.At(0, 0), m.At(1, 0), m.At(0, 1), m.At(1, 1), m.At(0, 2), m.At(1, 2)},
		CanvasWidth:  s.surface.Width(),
		CanvasHeight: s.surface.Height(),
		HasSelection: s.selection.Object() != nil,
	}
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange(s.State())
	}
}
