// Package raster 将线段与几何图形光栅化到画布上（不透明、无抗锯齿）
package raster

import (
	"image"
	"image/color"
	"math"
)

// Canvas 光栅化目标；越界的 Plot 必须被静默忽略
type Canvas interface {
	Bounds() image.Rectangle
	Plot(x, y int, c color.RGBA)
}

// Style 绘制样式
type Style struct {
	Color  color.RGBA // 描边/填充颜色
	Width  int        // 线宽（像素）
	Filled bool       // 是否填充（仅图形工具）
}

// ---------- 直线 ----------

// Line 绘制从 start 到 end 的直线
func Line(dst Canvas, start, end image.Point, st Style) {
	drawThickLine(dst, start, end, st.Color, st.Width)
}

// ---------- 画笔 / 橡皮擦 ----------

// Stroke 绘制自由画笔的一段（上一个指针位置到当前位置）
func Stroke(dst Canvas, prev, cur image.Point, st Style) {
	drawThickLine(dst, prev, cur, st.Color, st.Width)
}

// Erase 用背景色擦除一段
func Erase(dst Canvas, prev, cur image.Point, width int, background color.RGBA) {
	drawThickLine(dst, prev, cur, background, width)
}

// ---------- 矩形 ----------

// Rectangle 绘制轴对齐矩形，范围为 [min(start,end), max(start,end))
// 描边向内绘制，保证外框恰好等于矩形范围
func Rectangle(dst Canvas, start, end image.Point, st Style) {
	r := canonicalRect(start, end)
	w := lineWidth(st.Width)
	if r.Empty() {
		// 宽或高为 0 时描边退化为一条线宽为 w 的线段，填充不绘制
		if st.Filled || (r.Dx() == 0 && r.Dy() == 0) {
			return
		}
		lo := -(w - 1) / 2
		if r.Dx() == 0 {
			fillRect(dst, image.Rect(r.Min.X+lo, r.Min.Y, r.Min.X+lo+w, r.Max.Y), st.Color)
		} else {
			fillRect(dst, image.Rect(r.Min.X, r.Min.Y+lo, r.Max.X, r.Min.Y+lo+w), st.Color)
		}
		return
	}

	if st.Filled {
		fillRect(dst, r, st.Color)
		return
	}

	// 上、下、左、右
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w).Intersect(r), st.Color)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y).Intersect(r), st.Color)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y).Intersect(r), st.Color)
	fillRect(dst, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y).Intersect(r), st.Color)
}

// ---------- 圆 ----------

// Circle 以 center 为圆心、center 到 edge 的距离为半径绘制圆
func Circle(dst Canvas, center, edge image.Point, st Style) {
	radius := math.Hypot(float64(edge.X-center.X), float64(edge.Y-center.Y))
	halfW := float64(lineWidth(st.Width)) / 2
	if halfW < 0.5 {
		halfW = 0.5
	}

	reach := radius
	if !st.Filled {
		reach += halfW
	}
	box := image.Rect(
		center.X-int(math.Ceil(reach))-1, center.Y-int(math.Ceil(reach))-1,
		center.X+int(math.Ceil(reach))+2, center.Y+int(math.Ceil(reach))+2,
	).Intersect(dst.Bounds())

	cx, cy := float64(center.X), float64(center.Y)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) - cy
		for x := box.Min.X; x < box.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, dy)
			if st.Filled {
				if d <= radius {
					dst.Plot(x, y, st.Color)
				}
			} else if math.Abs(d-radius) <= halfW {
				dst.Plot(x, y, st.Color)
			}
		}
	}
}

// ---------- 三角形 ----------

// TriangleVertices 等腰三角形顶点：start、end，以及 end 关于 start 在 x 方向的镜像点
func TriangleVertices(start, end image.Point) []Point {
	return []Point{
		{float64(start.X), float64(start.Y)},
		{float64(end.X), float64(end.Y)},
		{float64(2*start.X - end.X), float64(end.Y)},
	}
}

// Triangle 绘制三角形
func Triangle(dst Canvas, start, end image.Point, st Style) {
	Polygon(dst, TriangleVertices(start, end), st)
}

// ---------- 五边形 ----------

// PentagonVertices 正五边形顶点：中心为 start/end 中点，外接圆半径为两点距离，
// 第 k 个顶点（k=1..5）位于 k*72° - 18°
func PentagonVertices(start, end image.Point) []Point {
	const sides = 5
	radius := math.Hypot(float64(end.X-start.X), float64(end.Y-start.Y))
	step := 2 * math.Pi / sides
	shift := -18 * math.Pi / 180
	cx := float64(start.X+end.X) / 2
	cy := float64(start.Y+end.Y) / 2

	pts := make([]Point, 0, sides)
	for side := 1; side <= sides; side++ {
		a := float64(side)*step + shift
		pts = append(pts, Point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

// Pentagon 绘制正五边形
func Pentagon(dst Canvas, start, end image.Point, st Style) {
	Polygon(dst, PentagonVertices(start, end), st)
}

// ---------- 多边形 ----------

// Point 浮点坐标点
type Point struct {
	X, Y float64
}

func (p Point) round() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Polygon 绘制闭合多边形：填充时按扫描线奇偶规则填充，否则描边每条边
func Polygon(dst Canvas, pts []Point, st Style) {
	if len(pts) < 2 {
		return
	}
	if st.Filled {
		fillPolygon(dst, pts, st.Color)
		return
	}
	for i := range pts {
		a := pts[i].round()
		b := pts[(i+1)%len(pts)].round()
		drawThickLine(dst, a, b, st.Color, st.Width)
	}
}
