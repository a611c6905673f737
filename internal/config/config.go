package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"sketchpad/internal/palette"
)

const (
	MinCanvasSize = 100
	MaxCanvasSize = 4000
)

// Canvas 画布配置
type Canvas struct {
	Width      int    `json:"width"`      // 宽度 100-4000
	Height     int    `json:"height"`     // 高度 100-4000
	Background string `json:"background"` // 背景色，如 #FFFFFF
}

// Brush 初始工具与样式
type Brush struct {
	Tool   string `json:"tool"`   // brush, eraser, fill, line, rectangle, circle, triangle, pentagon, select
	Color  string `json:"color"`  // #RGB, #RRGGBB, rgb(), rgba()
	Width  int    `json:"width"`  // 线宽，正数
	Filled bool   `json:"filled"` // 图形是否填充
}

// History 撤销历史配置
type History struct {
	Limit int `json:"limit"` // 撤销步数上限，0 表示不限制
}

// Storage 存储配置
type Storage struct {
	Directory  string `json:"directory"`  // 保存目录
	Format     string `json:"format"`     // 图片格式: png, jpg, bmp, tiff, pdf
	Quality    int    `json:"quality"`    // jpg质量 1-100
	RetainDays int    `json:"retainDays"` // 导出文件保留天数，0 表示永久保留
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `json:"showNotification"` // 导出后显示通知
}

// Remote 远程命令服务配置
type Remote struct {
	Addr string `json:"addr"` // 监听地址
}

// Config 主配置结构
type Config struct {
	Canvas   Canvas   `json:"canvas"`
	Brush    Brush    `json:"brush"`
	History  History  `json:"history"`
	Storage  Storage  `json:"storage"`
	Behavior Behavior `json:"behavior"`
	Remote   Remote   `json:"remote"`

	path string
}

var validTools = map[string]bool{
	"brush": true, "eraser": true, "fill": true, "line": true, "rectangle": true,
	"circle": true, "triangle": true, "pentagon": true, "select": true,
}

var validFormats = map[string]bool{"png": true, "jpg": true, "jpeg": true, "bmp": true, "tiff": true, "pdf": true}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	// 获取 exe 所在目录
	exePath, _ := os.Executable()
	exeDir := filepath.Dir(exePath)

	return &Config{
		Canvas: Canvas{
			Width:      800,
			Height:     600,
			Background: "#FFFFFF",
		},
		Brush: Brush{
			Tool:  "brush",
			Color: "#000000",
			Width: 5,
		},
		Storage: Storage{
			Directory: filepath.Join(exeDir, "drawings"),
			Format:    "png",
			Quality:   90,
		},
		Behavior: Behavior{
			ShowNotification: true,
		},
		Remote: Remote{
			Addr: "127.0.0.1:8765",
		},
	}
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "sketchpad", "config.json")
}

// Load 加载默认路径下的配置
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom 从指定路径加载配置；文件不存在时写入并返回默认配置
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		// 保存默认配置
		_ = cfg.Save()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return withPath(DefaultConfig(), path), fmt.Errorf("读取配置失败: %w", err)
	}

	// 缺省字段沿用默认值
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return withPath(DefaultConfig(), path), fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.path = path

	// 验证并修正配置
	cfg.Validate()

	return cfg, nil
}

func withPath(c *Config, path string) *Config {
	c.path = path
	return c
}

// Path 配置文件路径
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	// 画布尺寸 (100-4000)
	c.Canvas.Width = clamp(c.Canvas.Width, MinCanvasSize, MaxCanvasSize)
	c.Canvas.Height = clamp(c.Canvas.Height, MinCanvasSize, MaxCanvasSize)
	if c.Canvas.Background == "" {
		c.Canvas.Background = defaults.Canvas.Background
	}

	// 工具与线宽
	tool := strings.ToLower(strings.TrimSpace(c.Brush.Tool))
	if validTools[tool] {
		c.Brush.Tool = tool
	} else {
		c.Brush.Tool = defaults.Brush.Tool
	}
	if c.Brush.Width <= 0 {
		c.Brush.Width = defaults.Brush.Width
	}
	if c.Brush.Color == "" {
		c.Brush.Color = defaults.Brush.Color
	}

	if c.History.Limit < 0 {
		c.History.Limit = 0
	}

	// 验证图片质量 (1-100)
	if c.Storage.Quality < 1 || c.Storage.Quality > 100 {
		c.Storage.Quality = defaults.Storage.Quality
	}

	// 验证图片格式
	format := strings.ToLower(c.Storage.Format)
	if !validFormats[format] {
		c.Storage.Format = defaults.Storage.Format
	} else {
		c.Storage.Format = format
	}

	if c.Storage.RetainDays < 0 {
		c.Storage.RetainDays = 0
	}

	// 防止路径遍历攻击
	if strings.Contains(c.Storage.Directory, "..") || c.Storage.Directory == "" {
		c.Storage.Directory = defaults.Storage.Directory
	}

	if c.Remote.Addr == "" {
		c.Remote.Addr = defaults.Remote.Addr
	}
}

// Save 保存配置
func (c *Config) Save() error {
	configPath := c.Path()

	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// BackgroundColor 解析后的背景色
func (c *Config) BackgroundColor() color.RGBA {
	return palette.ParseColor(c.Canvas.Background)
}

// EnsureStorageDir 确保存储目录存在
func (c *Config) EnsureStorageDir() error {
	// 展开 ~
	dir := c.Storage.Directory
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}
	c.Storage.Directory = dir

	return os.MkdirAll(dir, 0755)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
