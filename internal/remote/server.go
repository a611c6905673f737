package remote

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sketchpad/internal/logging"
	"sketchpad/internal/session"
)

// Server 通过 websocket 接收命令；所有连接共享同一个会话，调用按互斥锁串行化
type Server struct {
	mu       sync.Mutex
	sess     *session.Session
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewServer 为会话创建命令服务
func NewServer(s *session.Session) *Server {
	return &Server{
		sess: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		log: logging.Logger().With("session", s.ID()),
	}
}

// Handler 路由：/ws 命令通道，/state 当前状态，/snapshot.png 当前画布，
// /view.png 按当前缩放呈现的画布
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.serveWS)
	mux.HandleFunc("/state", srv.serveState)
	mux.HandleFunc("/snapshot.png", srv.serveSnapshot)
	mux.HandleFunc("/view.png", srv.serveView)
	return mux
}

// Exec 串行执行一条命令
func (srv *Server) Exec(cmd Command) (Result, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return Apply(srv.sess, cmd)
}

func (srv *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.log.Warn("websocket 升级失败", "err", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log := srv.log.With("conn", connID)
	log.Info("客户端已连接", "remote", r.RemoteAddr)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("读取命令失败", "err", err)
			}
			break
		}

		res, err := srv.Exec(cmd)
		if err != nil {
			log.Debug("命令执行失败", "type", cmd.Type, "err", err)
		}
		if err := conn.WriteJSON(res); err != nil {
			log.Warn("发送结果失败", "err", err)
			break
		}
	}
	log.Info("客户端已断开")
}

func (srv *Server) serveState(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	st := srv.sess.State()
	srv.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

func (srv *Server) serveSnapshot(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	img := srv.sess.ExportSnapshot()
	srv.mu.Unlock()
	srv.writePNG(w, img)
}

func (srv *Server) serveView(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	img := srv.sess.View().Render(srv.sess.ExportSnapshot())
	srv.mu.Unlock()
	srv.writePNG(w, img)
}

func (srv *Server) writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		srv.log.Warn("编码图片失败", "err", err)
	}
}

// ListenAndServe 监听 addr，直到 ctx 结束
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.log.Info("命令服务已启动", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
