// Package fill 实现基于扫描线的区域填充（4 连通）
package fill

import (
	"fmt"
	"image/color"

	"sketchpad/internal/surface"
)

// Stats 一次填充的统计
type Stats struct {
	Pixels int // 写入的像素数
	Runs   int // 填充的水平线段数
}

// FloodFill 从 (x, y) 开始，将与种子颜色完全一致（RGBA 四通道）且 4 连通的区域填充为 c
// 种子颜色已等于 c 时不做任何写入
func FloodFill(s *surface.Surface, x, y int, c color.RGBA) (Stats, error) {
	target, err := s.Pixel(x, y)
	if err != nil {
		return Stats{}, fmt.Errorf("flood fill seed: %w", err)
	}
	if target == c {
		return Stats{}, nil
	}

	img := s.Image()
	w, h := s.Width(), s.Height()
	pix := img.Pix
	stride := img.Stride

	match := func(px, py int) bool {
		off := py*stride + px*surface.BytesPerPixel
		return pix[off] == target.R && pix[off+1] == target.G &&
			pix[off+2] == target.B && pix[off+3] == target.A
	}

	var st Stats
	stack := []int{y*w + x}

	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := pos%w, pos/w

		if !match(px, py) {
			continue
		}

		// 向左右扩展到最长连续段
		l, r := px, px
		for l > 0 && match(l-1, py) {
			l--
		}
		for r < w-1 && match(r+1, py) {
			r++
		}

		row := py * stride
		for fx := l; fx <= r; fx++ {
			off := row + fx*surface.BytesPerPixel
			pix[off+0] = c.R
			pix[off+1] = c.G
			pix[off+2] = c.B
			pix[off+3] = c.A
		}
		st.Runs++
		st.Pixels += r - l + 1

		// 每个已填充列的上下邻居入栈
		for fx := l; fx <= r; fx++ {
			if py > 0 && match(fx, py-1) {
				stack = append(stack, (py-1)*w+fx)
			}
			if py < h-1 && match(fx, py+1) {
				stack = append(stack, (py+1)*w+fx)
			}
		}
	}

	return st, nil
}
