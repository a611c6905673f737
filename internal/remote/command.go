// Package remote 以 JSON 命令驱动绘图会话：脚本回放与 websocket 命令通道
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"sketchpad/internal/session"
)

// ErrUnknownCommand 无法识别的命令类型
var ErrUnknownCommand = errors.New("remote: 未知命令")

// Command 一条绘图命令
//
//	{"type":"tool","tool":"rectangle"}
//	{"type":"down","x":10,"y":10}
//	{"type":"move","x":250.5,"y":80,"screen":true}
//	{"type":"size","width":640,"height":480}
type Command struct {
	ID      string  `json:"id,omitempty"` // 由客户端提供，原样回传
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Screen  bool    `json:"screen,omitempty"` // x/y 为屏幕坐标，按当前视图换算
	Tool    string  `json:"tool,omitempty"`
	Color   string  `json:"color,omitempty"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	Filled  bool    `json:"filled,omitempty"`
	Zoom    float64 `json:"zoom,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
}

// Result 命令执行结果
type Result struct {
	ID    string        `json:"id,omitempty"`
	OK    bool          `json:"ok"`
	Error string        `json:"error,omitempty"`
	Done  bool          `json:"done,omitempty"` // undo/redo 是否实际生效
	State session.State `json:"state"`
}

// Apply 在会话上执行一条命令
func Apply(s *session.Session, cmd Command) (Result, error) {
	res := Result{ID: cmd.ID, OK: true}
	err := apply(s, cmd, &res)
	if err != nil {
		res.OK = false
		res.Error = err.Error()
	}
	res.State = s.State()
	return res, err
}

func apply(s *session.Session, cmd Command, res *Result) error {
	switch cmd.Type {
	case "down", "move", "up", "leave":
		typ, err := session.ParseEventType(cmd.Type)
		if err != nil {
			return err
		}
		if cmd.Screen {
			return s.HandleScreenEvent(typ, cmd.X, cmd.Y)
		}
		return s.HandleEvent(session.Event{Type: typ, X: int(math.Floor(cmd.X)), Y: int(math.Floor(cmd.Y))})
	case "tool":
		t, err := session.ParseTool(cmd.Tool)
		if err != nil {
			return err
		}
		return s.SetTool(t)
	case "color":
		s.SetColor(cmd.Color)
	case "width":
		return s.SetStrokeWidth(cmd.Width)
	case "filled":
		s.SetFilled(cmd.Filled)
	case "undo":
		ok, err := s.Undo()
		res.Done = ok
		return err
	case "redo":
		ok, err := s.Redo()
		res.Done = ok
		return err
	case "clear":
		s.Clear()
	case "size":
		return s.SetSize(cmd.Width, cmd.Height)
	case "zoom":
		s.SetZoom(cmd.Zoom)
	case "zoomIn":
		s.ZoomIn()
	case "zoomOut":
		s.ZoomOut()
	case "resetZoom":
		s.ResetZoom()
	case "pan":
		s.SetPanMode(cmd.Enabled)
	case "center":
		s.Center()
	case "cancel":
		return s.CancelSelection()
	case "state":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

// LoadScript 读取 JSON 数组形式的命令脚本
func LoadScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	if err := json.NewDecoder(r).Decode(&cmds); err != nil {
		return nil, fmt.Errorf("remote: 解析脚本失败: %w", err)
	}
	return cmds, nil
}

// LoadScriptFile 读取脚本文件
func LoadScriptFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScript(f)
}

// Run 依次执行命令，遇到第一个错误即停止并返回其序号
func Run(s *session.Session, cmds []Command) error {
	for i, cmd := range cmds {
		if _, err := Apply(s, cmd); err != nil {
			return fmt.Errorf("remote: 第 %d 条命令 (%s): %w", i+1, cmd.Type, err)
		}
	}
	return nil
}
