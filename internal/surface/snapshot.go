package surface

import (
	"bytes"
	"fmt"
	"image"
)

// Snapshot 画布在某一时刻的完整像素副本，创建后不再修改
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// Snapshot 复制当前画布像素
func (s *Surface) Snapshot() *Snapshot {
	pix := make([]uint8, len(s.img.Pix))
	copy(pix, s.img.Pix)
	return &Snapshot{width: s.Width(), height: s.Height(), pix: pix}
}

// Restore 用快照替换画布内容；尺寸不一致时返回错误且不修改画布
func (s *Surface) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrDimensionMismatch)
	}
	if snap.width != s.Width() || snap.height != s.Height() {
		return fmt.Errorf("%w: snapshot %dx%d, surface %dx%d",
			ErrDimensionMismatch, snap.width, snap.height, s.Width(), s.Height())
	}
	copy(s.img.Pix, snap.pix)
	return nil
}

// Width 快照宽度
func (sn *Snapshot) Width() int { return sn.width }

// Height 快照高度
func (sn *Snapshot) Height() int { return sn.height }

// Image 返回快照内容的独立副本
func (sn *Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sn.width, sn.height))
	copy(img.Pix, sn.pix)
	return img
}

// Equal 判断两个快照像素是否完全一致
func (sn *Snapshot) Equal(other *Snapshot) bool {
	if sn == nil || other == nil {
		return sn == other
	}
	return sn.width == other.width && sn.height == other.height && bytes.Equal(sn.pix, other.pix)
}
