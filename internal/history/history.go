// Package history 基于整幅快照的撤销/重做
package history

import "sketchpad/internal/surface"

// History 撤销/重做管理器
type History struct {
	undoStack []*surface.Snapshot // 撤销栈（旧 -> 新，栈顶为最近一次操作前的状态）
	redoStack []*surface.Snapshot // 重做栈（栈顶为最近撤销的状态）
	limit     int                 // 撤销栈上限，<=0 表示不限制
}

// New 创建历史记录管理器；limit <= 0 时不限制撤销步数
func New(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// SaveState 记录一次操作前的状态，并清空重做栈
func (h *History) SaveState(snap *surface.Snapshot) {
	if snap == nil {
		return
	}
	h.undoStack = append(h.undoStack, snap)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		// 丢弃最旧的记录
		copy(h.undoStack, h.undoStack[1:])
		h.undoStack[len(h.undoStack)-1] = nil
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
	}

	// 清空重做栈（新操作后重做无效）
	clear(h.redoStack)
	h.redoStack = h.redoStack[:0]
}

// Undo 弹出撤销栈顶并把 current 压入重做栈；栈为空时返回 false 且不做任何修改
func (h *History) Undo(current *surface.Snapshot) (*surface.Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack[len(h.undoStack)-1] = nil
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo 弹出重做栈顶并把 current 压入撤销栈
func (h *History) Redo(current *surface.Snapshot) (*surface.Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	next := h.redoStack[len(h.redoStack)-1]
	h.redoStack[len(h.redoStack)-1] = nil
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, current)
	return next, true
}

// Discard 丢弃最近一次记录且不进入重做栈（对应的操作已被取消）
func (h *History) Discard() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	h.undoStack[len(h.undoStack)-1] = nil
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return true
}

// CanUndo 是否可以撤销
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo 是否可以重做
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Depth 返回撤销栈与重做栈的深度
func (h *History) Depth() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}

// Clear 清空所有历史
func (h *History) Clear() {
	clear(h.undoStack)
	clear(h.redoStack)
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}
