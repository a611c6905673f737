package surface

import (
	"image"
	"image/color"
)

// Region 按行复制画布的矩形区域（裁剪到画布范围），返回左上角为 (0,0) 的新图片
func (s *Surface) Region(r image.Rectangle) *image.RGBA {
	r = r.Canon().Intersect(s.img.Rect)

	// 边界检查
	if r.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	bytesPerRow := r.Dx() * BytesPerPixel

	for y := 0; y < r.Dy(); y++ {
		srcStart := s.offset(r.Min.X, r.Min.Y+y)
		dstStart := y * out.Stride
		copy(out.Pix[dstStart:dstStart+bytesPerRow], s.img.Pix[srcStart:srcStart+bytesPerRow])
	}
	return out
}

// Paste 将图片按原样写入画布（含 alpha，不混合），左上角对齐 at，超出部分被裁剪
func (s *Surface) Paste(img *image.RGBA, at image.Point) {
	if img == nil {
		return
	}
	src := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(src.Size())}.Intersect(s.img.Rect)
	if dst.Empty() {
		return
	}

	// dst 相对 at 的偏移即源图片内的偏移
	sx := src.Min.X + dst.Min.X - at.X
	sy := src.Min.Y + dst.Min.Y - at.Y
	bytesPerRow := dst.Dx() * BytesPerPixel

	for y := 0; y < dst.Dy(); y++ {
		srcStart := img.PixOffset(sx, sy+y)
		dstStart := s.offset(dst.Min.X, dst.Min.Y+y)
		copy(s.img.Pix[dstStart:dstStart+bytesPerRow], img.Pix[srcStart:srcStart+bytesPerRow])
	}
}

// ClearRect 将矩形区域置为完全透明
func (s *Surface) ClearRect(r image.Rectangle) {
	s.FillRect(r, color.RGBA{})
}
