package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/lingerie-shop/internal/config"
)

// HTTPService 店铺 API 的 HTTP 服务
type HTTPService struct {
	server *http.Server
	ready  chan net.Addr
}

// NewHTTPService 按服务配置创建 HTTP 服务，超时为 0 时不限制
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
			IdleTimeout:       time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		},
		ready: make(chan net.Addr, 1),
	}
}

func (s *HTTPService) Name() string {
	return "http"
}

// Ready 监听成功后返回实际地址（端口为 0 时可用于获取随机端口）
func (s *HTTPService) Ready() <-chan net.Addr {
	return s.ready
}

// Start 监听并阻塞直到服务关闭
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.ready <- ln.Addr()
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭，等待进行中的请求
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
