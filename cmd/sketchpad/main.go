package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sketchpad/internal/config"
	"sketchpad/internal/logging"
	"sketchpad/internal/notify"
	"sketchpad/internal/remote"
	"sketchpad/internal/session"
	"sketchpad/internal/storage"
)

const version = "v1.0.0"

// options 命令行参数
type options struct {
	configPath string
	scriptPath string
	outPath    string
	format     string
	dir        string
	zoom       float64
	serve      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scriptPath, "script", "", "回放 JSON 命令脚本后导出画布")
	flag.BoolVar(&opts.serve, "serve", false, "启动 websocket 命令服务")
	flag.StringVar(&opts.configPath, "config", "", "配置文件路径（默认使用用户配置目录）")
	flag.StringVar(&opts.outPath, "out", "", "导出文件路径（默认按时间生成到存储目录）")
	flag.StringVar(&opts.format, "format", "", "导出格式: png, jpg, bmp, tiff, pdf")
	flag.StringVar(&opts.dir, "dir", "", "覆盖配置中的存储目录")
	flag.Float64Var(&opts.zoom, "zoom", 0, "按缩放百分比导出 (25-500)，0 表示原尺寸")
	verbose := flag.Bool("v", false, "输出调试日志")
	showVersion := flag.Bool("version", false, "显示版本信息")
	flag.Parse()

	if *showVersion {
		fmt.Println("Sketchpad", version)
		fmt.Println("光栅画板命令行工具")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// 加载配置
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Println("加载配置失败，使用默认配置:", err)
	}

	if opts.format != "" {
		cfg.Storage.Format = opts.format
	} else if opts.outPath != "" {
		if ext := strings.TrimPrefix(filepath.Ext(opts.outPath), "."); ext != "" {
			cfg.Storage.Format = ext
		}
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	if opts.scriptPath == "" && !opts.serve {
		flag.Usage()
		return nil
	}

	if opts.scriptPath != "" {
		cmds, err := remote.LoadScriptFile(opts.scriptPath)
		if err != nil {
			return err
		}
		if err := remote.Run(sess, cmds); err != nil {
			return err
		}
		fmt.Printf("已执行 %d 条命令\n", len(cmds))
	}

	if opts.serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		srv := remote.NewServer(sess)
		fmt.Printf("命令服务: ws://%s/ws\n", cfg.Remote.Addr)
		if err := srv.ListenAndServe(ctx, cfg.Remote.Addr); err != nil {
			return err
		}
	}

	var notifier notify.Notifier = notify.Discard{}
	if cfg.Behavior.ShowNotification {
		notifier = notify.NewNotifier()
	}
	return export(cfg, sess, opts, notifier)
}

func newSession(cfg *config.Config) (*session.Session, error) {
	sess, err := session.New(
		session.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
		session.WithBackground(cfg.BackgroundColor()),
		session.WithHistoryLimit(cfg.History.Limit),
	)
	if err != nil {
		return nil, err
	}

	tool, err := session.ParseTool(cfg.Brush.Tool)
	if err != nil {
		return nil, err
	}
	if err := sess.SetTool(tool); err != nil {
		return nil, err
	}
	sess.SetColor(cfg.Brush.Color)
	if err := sess.SetStrokeWidth(cfg.Brush.Width); err != nil {
		return nil, err
	}
	sess.SetFilled(cfg.Brush.Filled)
	return sess, nil
}

// export 导出画布并按配置发送通知、清理旧文件；通知发送完毕后才返回
func export(cfg *config.Config, sess *session.Session, opts options, notifier notify.Notifier) error {
	img := sess.ExportSnapshot()
	if opts.zoom > 0 {
		sess.SetZoom(opts.zoom)
		img = sess.View().Render(img)
	}

	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("无法创建文件: %w", err)
		}
		if err := storage.Encode(f, img, cfg.Storage.Format, cfg.Storage.Quality); err != nil {
			f.Close()
			os.Remove(opts.outPath)
			return fmt.Errorf("无法保存图片: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("已保存到:", opts.outPath)
		showNotification(notifier, "导出完成", opts.outPath)
		return nil
	}

	if opts.dir == "" {
		if err := cfg.EnsureStorageDir(); err != nil {
			return fmt.Errorf("无法创建存储目录: %w", err)
		}
	}
	store := storage.NewStorage(cfg.Storage.Directory, cfg.Storage.Format, cfg.Storage.Quality)
	if opts.dir != "" {
		if err := store.SetDirectory(opts.dir); err != nil {
			return fmt.Errorf("无法创建存储目录: %w", err)
		}
	}
	if cfg.Storage.RetainDays > 0 {
		if err := store.Cleanup(time.Duration(cfg.Storage.RetainDays) * 24 * time.Hour); err != nil {
			logging.Logger().Warn("清理旧文件失败", "err", err)
		}
	}

	path, err := store.Save(img, sess.ID())
	if err != nil {
		showNotification(notifier, "保存失败", err.Error())
		return err
	}
	fmt.Println("已保存到:", path)
	showNotification(notifier, "导出完成", path)
	return nil
}

func showNotification(n notify.Notifier, title, message string) {
	if err := n.Show(title, message); err != nil {
		logging.Logger().Warn("发送通知失败", "title", title, "err", err)
	}
}
