package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"sketchpad/internal/logging"
)

// ErrUnsupportedFormat 不支持的导出格式
var ErrUnsupportedFormat = errors.New("storage: 不支持的格式")

// Storage 导出文件管理
type Storage struct {
	directory string
	format    string
	quality   int
}

// NewStorage 创建存储管理器
func NewStorage(directory, format string, quality int) *Storage {
	return &Storage{
		directory: directory,
		format:    normalizeFormat(format),
		quality:   quality,
	}
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return "png"
	}
	return format
}

// SetDirectory 设置保存目录
func (s *Storage) SetDirectory(dir string) error {
	// 展开 ~
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}

	s.directory = dir
	return os.MkdirAll(dir, 0755)
}

// Save 导出图片，返回文件路径；tag 用于区分不同会话的文件名
func (s *Storage) Save(img image.Image, tag string) (string, error) {
	// 确保目录存在
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return "", fmt.Errorf("无法创建目录: %w", err)
	}

	// 生成文件名
	timestamp := time.Now().Format("20060102_150405")
	if len(tag) > 8 {
		tag = tag[:8]
	}
	name := "drawing_" + timestamp
	if tag != "" {
		name += "_" + tag
	}
	path := filepath.Join(s.directory, name+"."+s.format)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("无法创建文件: %w", err)
	}

	if err := Encode(file, img, s.format, s.quality); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("无法保存图片: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("无法保存图片: %w", err)
	}

	logging.Logger().Info("图片已导出", "path", path, "format", s.format)
	return path, nil
}

// Encode 按格式编码图片：png, jpg/jpeg, bmp, tiff, pdf
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch normalizeFormat(format) {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "pdf":
		return encodePDF(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// encodePDF 单页 PDF，页面尺寸与画布像素一致（1px = 1pt）
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("drawing", opts, &buf)
	pdf.ImageOptions("drawing", 0, 0, width, height, false, opts, 0, "")
	return pdf.Output(w)
}

// Cleanup 清理旧的导出文件
func (s *Storage) Cleanup(olderThan time.Duration) error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-olderThan)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "drawing_") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.directory, entry.Name())) == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		logging.Logger().Info("已清理旧文件", "dir", s.directory, "count", removed)
	}
	return nil
}
