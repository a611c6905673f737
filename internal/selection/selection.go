// Package selection 矩形选区：框选、裁剪为浮动对象、拖拽、提交
package selection

import (
	"errors"
	"fmt"
	"image"

	"sketchpad/internal/surface"
)

// MinSize 可裁剪选区的最小宽高
const MinSize = 5

var (
	// ErrTooSmall 选区宽或高小于 MinSize
	ErrTooSmall = errors.New("selection: 选区过小")
	// ErrNoSelection 当前没有已完成的选区
	ErrNoSelection = errors.New("selection: 没有选区")
)

// State 选区状态机
type State int

const (
	Idle      State = iota // 空闲
	Selecting              // 正在框选
	Cropped                // 已裁剪为浮动对象
	Dragging               // 正在拖拽浮动对象
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Cropped:
		return "cropped"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Area 选区（画布坐标）
type Area struct {
	StartX, StartY int
	EndX, EndY     int
}

// Width 选区宽度 |end-start|
func (a Area) Width() int { return abs(a.EndX - a.StartX) }

// Height 选区高度 |end-start|
func (a Area) Height() int { return abs(a.EndY - a.StartY) }

// Min 规范化后的左上角
func (a Area) Min() image.Point {
	return image.Point{X: min(a.StartX, a.EndX), Y: min(a.StartY, a.EndY)}
}

// Rect 规范化后的矩形
func (a Area) Rect() image.Rectangle {
	p := a.Min()
	return image.Rect(p.X, p.Y, p.X+a.Width(), p.Y+a.Height())
}

// CroppedObject 从画布上取下的浮动像素块
type CroppedObject struct {
	Pixels   *image.RGBA
	X, Y     int
	Width    int
	Height   int
	Dragging bool
}

// Bounds 浮动对象当前所在矩形
func (o *CroppedObject) Bounds() image.Rectangle {
	return image.Rect(o.X, o.Y, o.X+o.Width, o.Y+o.Height)
}

// Contains 点是否落在对象范围内（含右下边界）
func (o *CroppedObject) Contains(x, y int) bool {
	return x >= o.X && x <= o.X+o.Width && y >= o.Y && y <= o.Y+o.Height
}

// Controller 选区控制器，直接操作给定画布
type Controller struct {
	surface  *surface.Surface
	state    State
	area     *Area
	object   *CroppedObject
	original *surface.Snapshot // 开始框选前的画布，用于取消
	baseline *surface.Snapshot // 预览底图：框选时为原画布，裁剪后为挖空后的画布
}

// New 创建选区控制器
func New(s *surface.Surface) *Controller {
	return &Controller{surface: s}
}

// State 当前状态
func (c *Controller) State() State { return c.state }

// Area 当前选区（框选中或已结束但尚未裁剪）
func (c *Controller) Area() (Area, bool) {
	if c.area == nil {
		return Area{}, false
	}
	return *c.area, true
}

// Object 当前浮动对象
func (c *Controller) Object() *CroppedObject { return c.object }

// Original 开始框选前的画布快照
func (c *Controller) Original() *surface.Snapshot { return c.original }

// Start 开始框选，记录画布作为取消与预览的底图
func (c *Controller) Start(x, y int) {
	c.reset()
	c.state = Selecting
	c.area = &Area{StartX: x, StartY: y, EndX: x, EndY: y}
	c.original = c.surface.Snapshot()
	c.baseline = c.original
}

// Update 更新框选终点，恢复底图后绘制虚线选框
func (c *Controller) Update(x, y int) error {
	if c.state != Selecting {
		return nil
	}
	c.area.EndX, c.area.EndY = x, y
	if err := c.surface.Restore(c.baseline); err != nil {
		return err
	}
	drawSelectionRectangle(c.surface, c.area.Rect())
	return nil
}

// End 结束框选并移除选框，返回最终选区
func (c *Controller) End() (Area, error) {
	if c.state != Selecting {
		return Area{}, ErrNoSelection
	}
	c.state = Idle
	if err := c.surface.Restore(c.baseline); err != nil {
		return Area{}, err
	}
	return *c.area, nil
}

// Crop 将选区裁剪为浮动对象：复制像素、清空原区域（透明），对象暂时绘制在原位置
func (c *Controller) Crop() (*CroppedObject, error) {
	if c.area == nil || c.state != Idle {
		return nil, ErrNoSelection
	}
	a := *c.area
	if a.Width() < MinSize || a.Height() < MinSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooSmall, a.Width(), a.Height())
	}
	r := a.Rect().Intersect(c.surface.Bounds())
	if r.Dx() < MinSize || r.Dy() < MinSize {
		return nil, fmt.Errorf("%w: %dx%d after clipping", ErrTooSmall, r.Dx(), r.Dy())
	}

	pixels := c.surface.Region(r)
	c.surface.ClearRect(r)
	c.baseline = c.surface.Snapshot()
	c.surface.Paste(pixels, r.Min)

	c.object = &CroppedObject{
		Pixels: pixels,
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
	c.area = nil
	c.state = Cropped
	return c.object, nil
}

// StartDragging 点击位置在浮动对象内时进入拖拽
func (c *Controller) StartDragging(x, y int) bool {
	if c.state != Cropped || c.object == nil || !c.object.Contains(x, y) {
		return false
	}
	c.object.Dragging = true
	c.state = Dragging
	return true
}

// Drag 将对象中心移动到 (x, y) 并重绘（预览）
func (c *Controller) Drag(x, y int) error {
	if c.state != Dragging {
		return nil
	}
	if err := c.surface.Restore(c.baseline); err != nil {
		return err
	}
	c.object.X = x - c.object.Width/2
	c.object.Y = y - c.object.Height/2
	c.surface.Paste(c.object.Pixels, image.Pt(c.object.X, c.object.Y))
	return nil
}

// EndDragging 结束拖拽，对象停留在最后绘制的位置
func (c *Controller) EndDragging() {
	if c.state != Dragging {
		return
	}
	c.object.Dragging = false
	c.state = Cropped
}

// Commit 放下浮动对象（像素已在画布上），回到空闲
func (c *Controller) Commit() bool {
	if c.object == nil {
		return false
	}
	c.reset()
	return true
}

// Cancel 恢复框选前的画布，丢弃进行中的裁剪或拖拽
func (c *Controller) Cancel() error {
	var err error
	if c.original != nil {
		err = c.surface.Restore(c.original)
	}
	c.reset()
	return err
}

// Reset 不恢复画布，直接丢弃所有选区状态（例如画布尺寸改变后）
func (c *Controller) Reset() { c.reset() }

func (c *Controller) reset() {
	c.state = Idle
	c.area = nil
	c.object = nil
	c.original = nil
	c.baseline = nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
