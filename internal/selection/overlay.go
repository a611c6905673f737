package selection

import (
	"image"
	"image/color"

	"sketchpad/internal/surface"
)

const (
	overlayDash   = 5 // 虚线段长度
	overlayWidth  = 2 // 选框线宽
	overlayHandle = 8 // 角手柄边长
)

var overlayColor = color.RGBA{0x00, 0x7a, 0xcc, 0xff}

// drawSelectionRectangle 绘制虚线选框和四个角手柄（仅预览，不进入底图）
func drawSelectionRectangle(s *surface.Surface, r image.Rectangle) {
	// 线宽 2 以边线为中心：覆盖边线前后各一个像素
	for x := r.Min.X; x <= r.Max.X; x++ {
		if dashOn(x - r.Min.X) {
			plotThick(s, x, r.Min.Y, false)
			plotThick(s, x, r.Max.Y, false)
		}
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		if dashOn(y - r.Min.Y) {
			plotThick(s, r.Min.X, y, true)
			plotThick(s, r.Max.X, y, true)
		}
	}

	half := overlayHandle / 2
	for _, p := range []image.Point{r.Min, {r.Max.X, r.Min.Y}, {r.Min.X, r.Max.Y}, r.Max} {
		s.FillRect(image.Rect(p.X-half, p.Y-half, p.X+half, p.Y+half), overlayColor)
	}
}

func dashOn(t int) bool {
	return (t/overlayDash)%2 == 0
}

func plotThick(s *surface.Surface, x, y int, vertical bool) {
	for i := -overlayWidth / 2; i < overlayWidth-overlayWidth/2; i++ {
		if vertical {
			s.Plot(x+i, y, overlayColor)
		} else {
			s.Plot(x, y+i, overlayColor)
		}
	}
}
