package checker

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/August26/nullvadcheck-go/internal/model"
)

func shortPreflight() *Preflight {
	p := DefaultPreflight()
	p.Timeout = 2 * time.Second
	return p
}

func TestPreflight_NoProxyPasses(t *testing.T) {
	if err := shortPreflight().Check(context.Background(), nil); err != nil {
		t.Fatalf("nil proxy must pass, got %v", err)
	}
}

func TestPreflight_UnreachableSOCKS5(t *testing.T) {
	// A listener that is closed immediately gives us a port that
	// refuses connections.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().(*net.TCPAddr)
	l.Close()

	cfg := &model.ProxyConfig{
		Domain: "127.0.0.1",
		Port:   strconv.Itoa(addr.Port),
		Kind:   model.ProxySOCKS5,
	}
	if err := shortPreflight().Check(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for dead proxy")
	}
}

func TestPreflight_SOCKS4ReachabilityOnly(t *testing.T) {
	// SOCKS4 gets a plain TCP reachability check, so any accepting
	// listener passes.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	addr := l.Addr().(*net.TCPAddr)
	cfg := &model.ProxyConfig{
		Domain: "127.0.0.1",
		Port:   strconv.Itoa(addr.Port),
		Kind:   model.ProxySOCKS4,
	}
	if err := shortPreflight().Check(context.Background(), cfg); err != nil {
		t.Fatalf("expected reachable SOCKS4 endpoint to pass, got %v", err)
	}
}

func TestPreflight_KindUnsetFails(t *testing.T) {
	cfg := &model.ProxyConfig{Domain: "127.0.0.1", Port: "3128"}
	if err := shortPreflight().Check(context.Background(), cfg); err == nil {
		t.Fatalf("expected error when proxy kind is unset")
	}
}
