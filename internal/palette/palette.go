// Package palette 负责颜色字符串解析以及预设颜色、线宽
package palette

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	Black = color.RGBA{0, 0, 0, 255}
	// Background 默认画布背景（不透明白色），橡皮擦也使用该颜色
	Background = color.RGBA{255, 255, 255, 255}
)

// DefaultColors 预设颜色面板
var DefaultColors = []color.RGBA{
	{0, 0, 0, 255},       // 黑色
	{255, 255, 255, 255}, // 白色
	{255, 0, 0, 255},     // 红色
	{0, 255, 0, 255},     // 绿色
	{0, 0, 255, 255},     // 蓝色
	{255, 255, 0, 255},   // 黄色
	{255, 128, 0, 255},   // 橙色
	{128, 0, 128, 255},   // 紫色
	{255, 192, 203, 255}, // 粉色
	{128, 128, 128, 255}, // 灰色
}

// DefaultLineWidths 预设线宽
var DefaultLineWidths = []int{1, 3, 5, 8, 12}

var (
	rgbPattern  = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
	rgbaPattern = regexp.MustCompile(`^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([\d.]+)\s*\)$`)
)

// ParseColor 解析 #RGB、#RRGGBB、rgb(r,g,b)、rgba(r,g,b,a) 格式的颜色
// rgba 的 alpha 取值 [0,1]，换算到 [0,255] 后四舍五入
// 无法解析时返回不透明黑色
func ParseColor(s string) color.RGBA {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
		return Black
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		r, okR := parseChannel(m[1])
		g, okG := parseChannel(m[2])
		b, okB := parseChannel(m[3])
		if okR && okG && okB {
			return color.RGBA{r, g, b, 255}
		}
		return Black
	}

	if m := rgbaPattern.FindStringSubmatch(s); m != nil {
		r, okR := parseChannel(m[1])
		g, okG := parseChannel(m[2])
		b, okB := parseChannel(m[3])
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil || !okR || !okG || !okB {
			return Black
		}
		a := math.Round(alpha * 255)
		if a < 0 || a > 255 {
			return Black
		}
		return color.RGBA{r, g, b, uint8(a)}
	}

	return Black
}

func parseHex(hex string) (color.RGBA, bool) {
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := uint8(v>>8&0xF), uint8(v>>4&0xF), uint8(v&0xF)
		return color.RGBA{r * 17, g * 17, b * 17, 255}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
	}
	return color.RGBA{}, false
}

func parseChannel(s string) (uint8, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return uint8(v), true
}

// Format 将颜色格式化为 #RRGGBB（不透明）或 rgba(r,g,b,a)
func Format(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', -1, 64))
}
