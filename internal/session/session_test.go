package session

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"sketchpad/internal/palette"
	"sketchpad/internal/surface"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(append([]Option{WithSize(100, 80)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func down(x, y int) Event  { return Event{Type: EventDown, X: x, Y: y} }
func move(x, y int) Event  { return Event{Type: EventMove, X: x, Y: y} }
func up(x, y int) Event    { return Event{Type: EventUp, X: x, Y: y} }
func leave(x, y int) Event { return Event{Type: EventLeave, X: x, Y: y} }

func play(t *testing.T, s *Session, events ...Event) {
	t.Helper()
	for _, ev := range events {
		if err := s.HandleEvent(ev); err != nil {
			t.Fatalf("HandleEvent(%v %d,%d): %v", ev.Type, ev.X, ev.Y, err)
		}
	}
}

func pixel(t *testing.T, s *Session, x, y int) color.RGBA {
	t.Helper()
	c, err := s.Surface().Pixel(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func setTool(t *testing.T, s *Session, tool Tool) {
	t.Helper()
	if err := s.SetTool(tool); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Tool != ToolBrush || st.Color != "#000000" || st.Width != DefaultStrokeWidth || st.Filled {
		t.Errorf("style defaults = %+v", st)
	}
	if st.CanvasWidth != DefaultWidth || st.CanvasHeight != DefaultHeight {
		t.Errorf("size = %dx%d", st.CanvasWidth, st.CanvasHeight)
	}
	if st.CanUndo || st.CanRedo || st.Mode != ModeIdle || st.ZoomPercent != 100 {
		t.Errorf("state defaults = %+v", st)
	}
	if s.ID() == "" {
		t.Error("empty session id")
	}
}

func TestInvalidSize(t *testing.T) {
	if _, err := New(WithSize(0, 10)); !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		name     string
		want     Tool
		category Category
	}{
		{"brush", ToolBrush, CategoryDrawing},
		{"Eraser", ToolEraser, CategoryDrawing},
		{"fill", ToolFill, CategoryDrawing},
		{"line", ToolLine, CategoryShape},
		{"rectangle", ToolRectangle, CategoryShape},
		{"circle", ToolCircle, CategoryShape},
		{" triangle ", ToolTriangle, CategoryShape},
		{"pentagon", ToolPentagon, CategoryShape},
		{"select", ToolSelect, CategoryDrawing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTool(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || got.Category() != tt.category {
				t.Errorf("got %v (%s), want %v (%s)", got, got.Category(), tt.want, tt.category)
			}
		})
	}
	if _, err := ParseTool("lasso"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}

func TestBrushStroke(t *testing.T) {
	s := newSession(t)
	play(t, s, down(10, 10))
	if pixel(t, s, 10, 10) != white {
		t.Error("pointer-down alone painted")
	}
	play(t, s, move(30, 10), move(30, 30), up(30, 30))

	for _, p := range []image.Point{{20, 10}, {30, 20}} {
		if got := pixel(t, s, p.X, p.Y); got != black {
			t.Errorf("pixel %v = %v, want black", p, got)
		}
	}
	if !s.CanUndo() {
		t.Fatal("stroke did not record history")
	}
	if ok, err := s.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if pixel(t, s, 20, 10) != white {
		t.Error("undo did not remove the stroke")
	}
	if !s.CanRedo() {
		t.Error("CanRedo false after undo")
	}
}

func TestLeaveEndsStroke(t *testing.T) {
	s := newSession(t)
	play(t, s, down(10, 10), move(20, 10), leave(20, 10), move(20, 60))
	if s.Mode() != ModeIdle {
		t.Errorf("mode = %v after leave", s.Mode())
	}
	if pixel(t, s, 20, 40) != white {
		t.Error("move after leave kept drawing")
	}
}

func TestEraserUsesBackground(t *testing.T) {
	s := newSession(t, WithBackground(color.RGBA{10, 20, 30, 255}))
	bg := s.Surface().Background()
	play(t, s, down(10, 40), move(90, 40), up(90, 40))
	setTool(t, s, ToolEraser)
	play(t, s, down(10, 40), move(90, 40), up(90, 40))
	if got := pixel(t, s, 50, 40); got != bg {
		t.Errorf("erased pixel = %v, want %v", got, bg)
	}
}

func TestShapePreviewDoesNotAccumulate(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolRectangle)
	play(t, s, down(10, 10), move(60, 60), move(20, 20), up(20, 20))

	if got := pixel(t, s, 45, 10); got != white {
		t.Errorf("earlier preview left at (45,10): %v", got)
	}
	if got := pixel(t, s, 10, 15); got != black {
		t.Errorf("final outline missing at (10,15): %v", got)
	}
	if got := pixel(t, s, 59, 30); got != white {
		t.Errorf("earlier preview left at (59,30): %v", got)
	}

	// 一次手势只记录一次历史
	if ok, _ := s.Undo(); !ok {
		t.Fatal("Undo failed")
	}
	if s.CanUndo() {
		t.Error("shape gesture recorded more than one history entry")
	}
}

func TestFilledShape(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolCircle)
	s.SetFilled(true)
	s.SetColor("rgb(255, 0, 0)")
	play(t, s, down(50, 40), move(60, 40), up(60, 40))
	if got := pixel(t, s, 50, 40); got != red {
		t.Errorf("circle center = %v, want red", got)
	}
	if got := pixel(t, s, 50, 55); got != white {
		t.Errorf("outside circle = %v, want white", got)
	}
}

func TestFillAtPointerDown(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolFill)
	s.SetColorRGBA(red)
	play(t, s, down(5, 5), up(5, 5))
	if got := pixel(t, s, 99, 79); got != red {
		t.Errorf("far pixel = %v, want red", got)
	}

	// 同色填充不写像素也不记录历史
	play(t, s, down(50, 50), up(50, 50))
	if ok, _ := s.Undo(); !ok {
		t.Fatal("Undo failed")
	}
	if s.CanUndo() {
		t.Error("no-op fill recorded history")
	}
	if got := pixel(t, s, 99, 79); got != white {
		t.Errorf("after undo pixel = %v, want white", got)
	}
}

func TestFillOutOfBounds(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolFill)
	err := s.HandleEvent(down(100, 5))
	if !errors.Is(err, surface.ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if s.CanUndo() {
		t.Error("rejected fill recorded history")
	}
}

func TestRepeatedDownIgnored(t *testing.T) {
	s := newSession(t)
	play(t, s, down(10, 10), down(50, 50), move(12, 10), up(12, 10))
	if got := pixel(t, s, 51, 50); got != white {
		t.Error("second pointer-down started a new stroke")
	}
	s.Undo()
	if s.CanUndo() {
		t.Error("second pointer-down recorded history")
	}
}

func TestUndoRoundTrip(t *testing.T) {
	s := newSession(t)
	initial := s.Surface().Snapshot()
	const n = 6
	for i := 0; i < n; i++ {
		y := 10 + i*10
		play(t, s, down(5, y), move(90, y), up(90, y))
	}
	for i := 0; i < n; i++ {
		if ok, err := s.Undo(); !ok || err != nil {
			t.Fatalf("undo %d = %v, %v", i, ok, err)
		}
	}
	if ok, _ := s.Undo(); ok {
		t.Error("undo past the first action succeeded")
	}
	if !s.Surface().Snapshot().Equal(initial) {
		t.Error("surface differs from initial state")
	}
	for i := 0; i < n; i++ {
		if ok, _ := s.Redo(); !ok {
			t.Fatalf("redo %d failed", i)
		}
	}
	if got := pixel(t, s, 50, 60); got != black {
		t.Errorf("last stroke after redo = %v", got)
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	s := newSession(t)
	play(t, s, down(5, 5), move(50, 5), up(50, 5))
	s.Undo()
	play(t, s, down(5, 30), move(50, 30), up(50, 30))
	if s.CanRedo() {
		t.Error("redo still available after a new action")
	}
	if ok, _ := s.Redo(); ok {
		t.Error("Redo succeeded after undo + new action")
	}
}

func TestSelectionCropDragUndo(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolRectangle)
	s.SetFilled(true)
	play(t, s, down(5, 5), move(25, 25), up(25, 25))
	beforeSelection := s.Surface().Snapshot()

	setTool(t, s, ToolSelect)
	play(t, s, down(5, 5), move(25, 25), up(25, 25))
	st := s.State()
	if !st.HasSelection || st.Mode != ModeIdle {
		t.Fatalf("after select state = %+v", st)
	}
	if !s.Surface().Snapshot().Equal(beforeSelection) {
		t.Fatal("crop changed visible pixels before any drag")
	}

	play(t, s, down(15, 15))
	if s.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging", s.Mode())
	}
	play(t, s, move(60, 60), up(60, 60))

	if got := pixel(t, s, 55, 55); got != black {
		t.Errorf("moved object pixel = %v, want black", got)
	}
	if got := pixel(t, s, 10, 10); got != (color.RGBA{}) {
		t.Errorf("source region = %v, want transparent", got)
	}

	if ok, err := s.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if s.State().HasSelection {
		t.Error("floating object survived undo")
	}
	if !s.Surface().Snapshot().Equal(beforeSelection) {
		t.Error("undo did not restore the pre-crop buffer")
	}
}

func TestSelectionDownOutsideCommits(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolSelect)
	play(t, s, down(5, 5), move(25, 25), up(25, 25))
	play(t, s, down(80, 70))
	if s.Mode() != ModeSelecting {
		t.Fatalf("mode = %v, want selecting", s.Mode())
	}
	if s.State().HasSelection {
		t.Error("previous floating object not committed")
	}
	play(t, s, up(80, 70))
}

func TestSmallSelectionIgnored(t *testing.T) {
	s := newSession(t)
	play(t, s, down(5, 40), move(90, 40), up(90, 40))
	before := s.Surface().Snapshot()
	s.Undo()
	s.Redo()

	setTool(t, s, ToolSelect)
	play(t, s, down(10, 30), move(13, 60), up(13, 60))
	if s.State().HasSelection {
		t.Error("undersized selection produced a floating object")
	}
	if s.CanRedo() {
		t.Error("undersized selection touched history")
	}
	if !s.Surface().Snapshot().Equal(before) {
		t.Error("undersized selection changed the surface")
	}
}

func TestCancelSelection(t *testing.T) {
	s := newSession(t)
	play(t, s, down(5, 10), move(90, 10), up(90, 10))
	before := s.Surface().Snapshot()

	setTool(t, s, ToolSelect)
	play(t, s, down(0, 0), move(40, 20), up(40, 20))
	play(t, s, down(20, 10), move(70, 60), up(70, 60))
	if err := s.CancelSelection(); err != nil {
		t.Fatal(err)
	}
	if !s.Surface().Snapshot().Equal(before) {
		t.Error("cancel did not restore the pre-selection buffer")
	}
	// 只剩画笔那一步
	s.Undo()
	if s.CanUndo() {
		t.Error("cancelled crop left a history entry")
	}
}

func TestExportExcludesSelectionOverlay(t *testing.T) {
	s := newSession(t)
	setTool(t, s, ToolSelect)
	play(t, s, down(10, 10), move(40, 40))
	out := s.ExportSnapshot()
	if got := out.RGBAAt(10, 10); got != white {
		t.Errorf("export contains overlay pixel %v", got)
	}
	play(t, s, up(40, 40))
}

func TestPanMode(t *testing.T) {
	s := newSession(t)
	before := s.Surface().Snapshot()
	s.SetPanMode(true)
	play(t, s, down(0, 0), move(10, 5), move(15, 5), up(15, 5))

	if x, y := s.View().Offset(); x != 15 || y != 5 {
		t.Errorf("offset = (%v, %v), want (15, 5)", x, y)
	}
	if !s.Surface().Snapshot().Equal(before) || s.CanUndo() {
		t.Error("pan gesture touched pixels or history")
	}

	s.SetPanMode(false)
	s.Center()
	if x, y := s.View().Offset(); x != 0 || y != 0 {
		t.Errorf("offset after Center = (%v, %v)", x, y)
	}
}

func TestStyleValidation(t *testing.T) {
	s := newSession(t)
	if err := s.SetStrokeWidth(0); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("err = %v, want ErrInvalidWidth", err)
	}
	if err := s.SetStrokeWidth(12); err != nil || s.Style().Width != 12 {
		t.Errorf("SetStrokeWidth(12): %v, width %d", err, s.Style().Width)
	}
	s.SetColor("not-a-color")
	if s.Style().Color != palette.Black {
		t.Errorf("invalid color = %v, want black", s.Style().Color)
	}
	if err := s.SetTool(ToolCount); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}

func TestClearAndResize(t *testing.T) {
	s := newSession(t)
	play(t, s, down(5, 5), move(50, 50), up(50, 50))
	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Error("Clear kept history")
	}
	if got := pixel(t, s, 25, 25); got != white {
		t.Errorf("pixel after clear = %v", got)
	}

	play(t, s, down(5, 5), move(50, 50), up(50, 50))
	if err := s.SetSize(200, 150); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.CanvasWidth != 200 || st.CanvasHeight != 150 || st.CanUndo {
		t.Errorf("state after resize = %+v", st)
	}
	if err := s.SetSize(-1, 10); !errors.Is(err, surface.ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestOnChange(t *testing.T) {
	var states []State
	s := newSession(t, WithOnChange(func(st State) { states = append(states, st) }))
	play(t, s, down(5, 5), move(50, 5), up(50, 5))
	if len(states) == 0 {
		t.Fatal("OnChange never fired")
	}
	last := states[len(states)-1]
	if !last.CanUndo || last.Mode != ModeIdle {
		t.Errorf("last state = %+v", last)
	}
	s.ZoomIn()
	if states[len(states)-1].ZoomPercent != 125 {
		t.Errorf("zoom state = %v", states[len(states)-1].ZoomPercent)
	}
}

func TestClickWithoutChangeLeavesNoHistory(t *testing.T) {
	s := newSession(t)
	play(t, s, down(10, 10), up(10, 10))
	if s.CanUndo() {
		t.Error("brush click without movement recorded history")
	}

	setTool(t, s, ToolLine)
	play(t, s, down(10, 10), move(40, 10), move(10, 10), up(10, 10))
	if st := s.State(); st.UndoDepth != 1 {
		t.Errorf("undo depth = %d after a single-point line, want 1", st.UndoDepth)
	}

	setTool(t, s, ToolRectangle)
	play(t, s, down(30, 30), up(30, 30))
	if st := s.State(); st.UndoDepth != 1 || st.RedoDepth != 0 {
		t.Errorf("depth = %d/%d after empty rectangle, want 1/0", st.UndoDepth, st.RedoDepth)
	}
}

func TestHandleScreenEvent(t *testing.T) {
	s := newSession(t)
	s.SetZoom(200)

	s.SetPanMode(true)
	for _, ev := range []struct {
		typ  EventType
		x, y float64
	}{{EventDown, 0, 0}, {EventMove, 10, 0}, {EventUp, 10, 0}} {
		if err := s.HandleScreenEvent(ev.typ, ev.x, ev.y); err != nil {
			t.Fatal(err)
		}
	}
	s.SetPanMode(false)
	if x, y := s.View().Offset(); x != 10 || y != 0 {
		t.Fatalf("offset = (%v, %v), want (10, 0)", x, y)
	}

	// 屏幕 (50,40)-(90,40) 对应画布 (20,20)-(40,20)
	for _, ev := range []struct {
		typ  EventType
		x, y float64
	}{{EventDown, 50, 40}, {EventMove, 90, 40}, {EventUp, 90, 40}} {
		if err := s.HandleScreenEvent(ev.typ, ev.x, ev.y); err != nil {
			t.Fatal(err)
		}
	}
	if got := pixel(t, s, 30, 20); got != black {
		t.Errorf("canvas (30,20) = %v, want black", got)
	}
	if got := pixel(t, s, 70, 40); got != white {
		t.Errorf("canvas (70,40) = %v, stroke used screen coordinates", got)
	}

	if got := s.State().Transform; got != [6]float64{2, 0, 0, 2, 10, 0} {
		t.Errorf("transform = %v", got)
	}
}
