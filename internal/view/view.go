// Package view 画布的缩放与平移（只影响呈现，不修改像素）
package view

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

const (
	MinZoomPercent  = 25
	MaxZoomPercent  = 500
	ZoomStepPercent = 25
)

// Transform 缩放倍率与平移偏移；零值不可用，使用 New
type Transform struct {
	zoom    float64
	panX    float64
	panY    float64
	panMode bool
}

// New 返回 100%、无偏移的视图
func New() *Transform {
	return &Transform{zoom: 1}
}

// SetZoom 设置缩放百分比，限制在 [25, 500]
func (t *Transform) SetZoom(percent float64) {
	if math.IsNaN(percent) {
		return
	}
	percent = max(MinZoomPercent, min(MaxZoomPercent, percent))
	t.zoom = percent / 100
}

// ZoomIn 放大一档
func (t *Transform) ZoomIn() { t.SetZoom(t.ZoomPercent() + ZoomStepPercent) }

// ZoomOut 缩小一档
func (t *Transform) ZoomOut() { t.SetZoom(t.ZoomPercent() - ZoomStepPercent) }

// Zoom 当前倍率
func (t *Transform) Zoom() float64 { return t.zoom }

// ZoomPercent 当前缩放百分比
func (t *Transform) ZoomPercent() float64 { return math.Round(t.zoom * 100) }

// Reset 缩放恢复 100%，偏移归零
func (t *Transform) Reset() {
	t.zoom = 1
	t.panX, t.panY = 0, 0
}

// SetPanMode 开关平移模式；开启时指针手势用于平移而非绘制
func (t *Transform) SetPanMode(enabled bool) { t.panMode = enabled }

// PanMode 是否处于平移模式
func (t *Transform) PanMode() bool { return t.panMode }

// Pan 累加偏移，仅在平移模式下生效
func (t *Transform) Pan(dx, dy float64) bool {
	if !t.panMode {
		return false
	}
	t.panX += dx
	t.panY += dy
	return true
}

// Center 偏移归零，保持缩放
func (t *Transform) Center() {
	t.panX, t.panY = 0, 0
}

// Offset 当前平移偏移
func (t *Transform) Offset() (x, y float64) { return t.panX, t.panY }

// Matrix 画布坐标到屏幕坐标的齐次仿射矩阵 translate(pan)·scale(zoom)
func (t *Transform) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.zoom, 0, t.panX,
		0, t.zoom, t.panY,
		0, 0, 1,
	})
}

// ScreenToCanvas 屏幕坐标通过逆矩阵映射回画布坐标
func (t *Transform) ScreenToCanvas(x, y float64) (float64, float64, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.Matrix()); err != nil {
		return 0, 0, fmt.Errorf("view: 变换矩阵不可逆: %w", err)
	}
	var out mat.VecDense
	out.MulVec(&inv, mat.NewVecDense(3, []float64{x, y, 1}))
	return out.AtVec(0), out.AtVec(1), nil
}

// Render 生成按当前倍率缩放的呈现副本（最近邻，保持像素边缘清晰）
// 平移由调用方在放置该图像时应用
func (t *Transform) Render(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w := int(math.Ceil(float64(b.Dx()) * t.zoom))
	h := int(math.Ceil(float64(b.Dy()) * t.zoom))
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
