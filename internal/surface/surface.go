// Package surface 管理画布像素缓冲区
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrOutOfBounds 像素坐标超出画布范围
	ErrOutOfBounds = errors.New("surface: 坐标越界")
	// ErrDimensionMismatch 快照尺寸与当前画布不一致
	ErrDimensionMismatch = errors.New("surface: 快照尺寸与画布不一致")
	// ErrInvalidSize 画布尺寸必须为正数
	ErrInvalidSize = errors.New("surface: 画布尺寸无效")
)

// BytesPerPixel RGBA 格式每像素字节数
const BytesPerPixel = 4

// Surface 可绘制的 RGBA 画布
type Surface struct {
	img        *image.RGBA
	background color.RGBA
}

// New 创建指定尺寸的画布，并用不透明背景色填充
func New(width, height int, background color.RGBA) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	background.A = 255
	s := &Surface{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: background,
	}
	s.Clear()
	return s, nil
}

// Width 画布宽度
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height 画布高度
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds 画布范围，左上角恒为 (0,0)
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Background 背景色（不透明）
func (s *Surface) Background() color.RGBA { return s.background }

// Clear 用背景色重新填充整个画布
func (s *Surface) Clear() {
	fillPix(s.img.Pix, s.background)
}

// Resize 重新分配缓冲区，原有内容丢弃
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.Clear()
	return nil
}

func (s *Surface) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.img.Rect.Max.X && y < s.img.Rect.Max.Y
}

func (s *Surface) offset(x, y int) int {
	return y*s.img.Stride + x*BytesPerPixel
}

// Pixel 读取像素
func (s *Surface) Pixel(x, y int) (color.RGBA, error) {
	if !s.inBounds(x, y) {
		return color.RGBA{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	off := s.offset(x, y)
	p := s.img.Pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}, nil
}

// SetPixel 写入像素，越界时不做任何修改
func (s *Surface) SetPixel(x, y int, c color.RGBA) error {
	if !s.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	s.Plot(x, y, c)
	return nil
}

// Plot 直接写入像素（不混合），越界坐标被静默裁剪
func (s *Surface) Plot(x, y int, c color.RGBA) {
	if !s.inBounds(x, y) {
		return
	}
	off := s.offset(x, y)
	s.img.Pix[off+0] = c.R
	s.img.Pix[off+1] = c.G
	s.img.Pix[off+2] = c.B
	s.img.Pix[off+3] = c.A
}

// FillRect 用颜色填充矩形区域（裁剪到画布范围）
func (s *Surface) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Canon().Intersect(s.img.Rect)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := s.offset(r.Min.X, y)
		fillPix(s.img.Pix[start:start+r.Dx()*BytesPerPixel], c)
	}
}

// Image 返回底层缓冲区（调用方只读）
func (s *Surface) Image() *image.RGBA { return s.img }

// Export 返回当前像素的独立副本，用于编码导出
func (s *Surface) Export() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// fillPix 以倍增复制的方式填充颜色
func fillPix(pix []uint8, c color.RGBA) {
	if len(pix) < BytesPerPixel {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for n := BytesPerPixel; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}
