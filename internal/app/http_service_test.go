package app

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lingerie-shop/internal/config"
)

func TestRunnerServesHTTPAndStopsOnCancel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "0", ReadHeaderTimeoutSeconds: 5}, mux)
	if svc.server.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("read header timeout not applied: %s", svc.server.ReadHeaderTimeout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewRunner(svc).Run(ctx, time.Second, nil)
	}()

	var addr string
	select {
	case a := <-svc.Ready():
		addr = a.String()
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("http service did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response: %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runner returned error after cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not stop")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}
