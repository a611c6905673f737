package raster

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// lineWidth 线宽至少为 1
func lineWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}

// brush 直径为 width 的圆形笔刷；按行计算覆盖区间，不展开成逐点偏移
// 水平/垂直线段恰好覆盖 width 个像素
type brush struct {
	lo, hi int     // 行/列偏移范围 [lo, hi]
	center float64 // 笔刷中心相对落笔点的偏移
	r2     float64 // 半径平方
}

func newBrush(width int) brush {
	width = lineWidth(width)
	lo := -(width - 1) / 2
	hi := lo + width - 1
	w := float64(width)
	return brush{lo: lo, hi: hi, center: float64(lo+hi) / 2, r2: w * w / 4}
}

// span 返回第 dy 行覆盖的列偏移 [x0, x1]；该行不在笔刷内时 ok 为 false
func (b brush) span(dy int) (x0, x1 int, ok bool) {
	fy := float64(dy) - b.center
	rem := b.r2 + 1e-9 - fy*fy
	if rem < 0 {
		return 0, 0, false
	}
	half := math.Sqrt(rem)
	x0 = max(b.lo, int(math.Ceil(b.center-half)))
	x1 = min(b.hi, int(math.Floor(b.center+half)))
	return x0, x1, x0 <= x1
}

// stamp 在 (x, y) 落笔；逐行裁剪到画布范围，超大笔刷的开销受画布尺寸限制
func (b brush) stamp(dst Canvas, bounds image.Rectangle, x, y int, c color.RGBA) {
	dy0 := max(b.lo, bounds.Min.Y-y)
	dy1 := min(b.hi, bounds.Max.Y-1-y)
	for dy := dy0; dy <= dy1; dy++ {
		x0, x1, ok := b.span(dy)
		if !ok {
			continue
		}
		px0 := max(x+x0, bounds.Min.X)
		px1 := min(x+x1, bounds.Max.X-1)
		for px := px0; px <= px1; px++ {
			dst.Plot(px, y+dy, c)
		}
	}
}

// drawThickLine 沿 Bresenham 直线逐点盖章圆形笔刷（圆头端点）
func drawThickLine(dst Canvas, p0, p1 image.Point, c color.RGBA, width int) {
	br := newBrush(width)
	bounds := dst.Bounds()

	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}

	x, y := p0.X, p0.Y
	e := dx + dy
	for {
		br.stamp(dst, bounds, x, y, c)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// fillRect 填充矩形（裁剪到画布范围）
func fillRect(dst Canvas, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Plot(x, y, c)
		}
	}
}

// fillPolygon 扫描线奇偶规则填充多边形，按像素中心采样
func fillPolygon(dst Canvas, pts []Point, c color.RGBA) {
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	b := dst.Bounds()
	y0 := max(int(math.Floor(minY)), b.Min.Y)
	y1 := min(int(math.Ceil(maxY)), b.Max.Y-1)

	xs := make([]float64, 0, len(pts))
	for y := y0; y <= y1; y++ {
		fy := float64(y)
		xs = xs[:0]
		for i := range pts {
			a, e := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= fy && e.Y > fy) || (e.Y <= fy && a.Y > fy) {
				xs = append(xs, a.X+(fy-a.Y)*(e.X-a.X)/(e.Y-a.Y))
			}
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			x0 := max(int(math.Ceil(xs[i])), b.Min.X)
			x1 := min(int(math.Floor(xs[i+1])), b.Max.X-1)
			for x := x0; x <= x1; x++ {
				dst.Plot(x, y, c)
			}
		}
	}
}

// canonicalRect 将两个点转换为规范化的矩形（保证 Min <= Max）
func canonicalRect(p1, p2 image.Point) image.Rectangle {
	x0, x1 := p1.X, p2.X
	y0, y1 := p1.Y, p2.Y
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1, y1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
