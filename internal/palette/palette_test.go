package palette

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"#ff8000", color.RGBA{255, 128, 0, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"#1a2", color.RGBA{0x11, 0xAA, 0x22, 255}},
		{"rgb(10,20,30)", color.RGBA{10, 20, 30, 255}},
		{"rgb(0, 0, 0)", color.RGBA{0, 0, 0, 255}},
		{"rgba(1,2,3,0.5)", color.RGBA{1, 2, 3, 128}},
		{"rgba(255, 255, 255, 1)", color.RGBA{255, 255, 255, 255}},
		{"rgba(4,5,6,0)", color.RGBA{4, 5, 6, 0}},
		{"  #00FF00 ", color.RGBA{0, 255, 0, 255}},
		{"not-a-color", Black},
		{"", Black},
		{"#12", Black},
		{"#GGGGGG", Black},
		{"rgb(256,0,0)", Black},
		{"rgba(1,2,3,1.5)", Black},
		{"rgba(1,2,3)", Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseColor(tt.in); got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(color.RGBA{255, 0, 16, 255}); got != "#FF0010" {
		t.Errorf("Format opaque = %q", got)
	}
	if got := Format(color.RGBA{1, 2, 3, 0}); got != "rgba(1,2,3,0)" {
		t.Errorf("Format transparent = %q", got)
	}
	for _, c := range DefaultColors {
		if got := ParseColor(Format(c)); got != c {
			t.Errorf("ParseColor(Format(%v)) = %v", c, got)
		}
	}
}
