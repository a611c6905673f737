package session

import (
	"fmt"
	"strings"
)

// Tool 绘图工具
type Tool int

const (
	ToolBrush     Tool = iota // 画笔
	ToolEraser                // 橡皮擦
	ToolFill                  // 油漆桶
	ToolLine                  // 直线
	ToolRectangle             // 矩形
	ToolCircle                // 圆形
	ToolTriangle              // 三角形
	ToolPentagon              // 五边形
	ToolSelect                // 选区
	ToolCount                 // 工具总数（用于遍历）
)

// ToolName 工具标识（与工具栏按钮 id 一致）
var ToolName = map[Tool]string{
	ToolBrush:     "brush",
	ToolEraser:    "eraser",
	ToolFill:      "fill",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolTriangle:  "triangle",
	ToolPentagon:  "pentagon",
	ToolSelect:    "select",
}

// Category 工具分组（仅用于界面分组）
type Category string

const (
	CategoryDrawing Category = "drawing"
	CategoryShape   Category = "shape"
)

func (t Tool) String() string {
	if name, ok := ToolName[t]; ok {
		return name
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// MarshalText 以工具标识序列化
func (t Tool) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText 按工具标识反序列化
func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Category 返回工具所属分组
func (t Tool) Category() Category {
	if t.isShape() {
		return CategoryShape
	}
	return CategoryDrawing
}

func (t Tool) isShape() bool {
	switch t {
	case ToolLine, ToolRectangle, ToolCircle, ToolTriangle, ToolPentagon:
		return true
	}
	return false
}

// ParseTool 按标识查找工具（忽略大小写）
func ParseTool(name string) (Tool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t := Tool(0); t < ToolCount; t++ {
		if ToolName[t] == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// EventType 指针事件类型
type EventType int

const (
	EventDown  EventType = iota // 按下
	EventMove                   // 移动
	EventUp                     // 抬起
	EventLeave                  // 离开画布（等同抬起）
)

var eventNames = [...]string{"down", "move", "up", "leave"}

func (e EventType) String() string {
	if int(e) >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("EventType(%d)", int(e))
}

// ParseEventType 按名称查找事件类型
func ParseEventType(name string) (EventType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range eventNames {
		if n == name {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("session: 未知事件类型 %q", name)
}

// Event 画布坐标系下的指针事件
type Event struct {
	Type EventType
	X, Y int
}

// Mode 当前交互模式
type Mode int

const (
	ModeIdle      Mode = iota // 空闲
	ModeDrawing               // 画笔/橡皮擦/图形绘制中
	ModePanning               // 平移中
	ModeSelecting             // 框选中
	ModeDragging              // 拖拽浮动选区中
)

var modeNames = [...]string{"idle", "drawing", "panning", "selecting", "dragging"}

func (m Mode) String() string {
	if int(m) >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText 以模式名称序列化
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText 按模式名称反序列化
func (m *Mode) UnmarshalText(b []byte) error {
	for i, n := range modeNames {
		if n == string(b) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("session: 未知模式 %q", b)
}

// State 提供给界面层的只读状态
type State struct {
	Tool         Tool       `json:"tool"`
	Color        string     `json:"color"`
	Width        int        `json:"width"`
	Filled       bool       `json:"filled"`
	Mode         Mode       `json:"mode"`
	CanUndo      bool       `json:"canUndo"`
	CanRedo      bool       `json:"canRedo"`
	UndoDepth    int        `json:"undoDepth"`
	RedoDepth    int        `json:"redoDepth"`
	ZoomPercent  float64    `json:"zoomPercent"`
	PanMode      bool       `json:"panMode"`
	PanX         float64    `json:"panX"`
	PanY         float64    `json:"panY"`
	Transform    [6]float64 `json:"transform"` // 画布到屏幕的仿射变换 (a, b, c, d, e, f)，顺序同 canvas setTransform
	CanvasWidth  int        `json:"canvasWidth"`
	CanvasHeight int        `json:"canvasHeight"`
	HasSelection bool       `json:"hasSelection"`
}
