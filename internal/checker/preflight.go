package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// Preflight verifies that the configured upstream proxy is actually
// usable before a batch starts, so a dead proxy fails fast instead of
// surfacing as one opaque client error per account.
//
// SOCKS5 proxies get a proxied TCP dial to the probe address; HTTP(S)
// proxies get a CONNECT-tunneled HEAD request; SOCKS4 (which x/net's
// dialer does not speak) gets a plain TCP reachability check of the
// proxy itself.
type Preflight struct {
	// ProbeAddr is the host:port dialed through SOCKS proxies.
	ProbeAddr string
	// ProbeURL is the URL fetched through HTTP(S) proxies.
	ProbeURL string
	// Timeout bounds the whole probe.
	Timeout time.Duration
}

// DefaultPreflight returns a probe against well-known, always-up targets.
func DefaultPreflight() *Preflight {
	return &Preflight{
		ProbeAddr: "api.mullvad.net:443",
		ProbeURL:  "https://api.mullvad.net/www/relays/",
		Timeout:   10 * time.Second,
	}
}

// Check probes the proxy. A nil config (no proxy) passes trivially.
func (p *Preflight) Check(ctx context.Context, cfg *model.ProxyConfig) error {
	if cfg == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	switch cfg.Kind {
	case model.ProxySOCKS5:
		return p.checkSOCKS5(ctx, cfg)
	case model.ProxySOCKS4:
		return p.checkTCPReachable(ctx, cfg)
	default: // http, https
		return p.checkHTTP(ctx, cfg)
	}
}

// checkSOCKS5 opens a TCP connection to the probe address through the
// proxy. A completed handshake is enough to call the proxy usable.
func (p *Preflight) checkSOCKS5(ctx context.Context, cfg *model.ProxyConfig) error {
	addr := net.JoinHostPort(cfg.Domain, cfg.Port)

	var auth *proxy.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = &proxy.Auth{User: cfg.Username, Password: cfg.Password}
	}

	dialer, err := proxy.SOCKS5("tcp", addr, auth, &net.Dialer{})
	if err != nil {
		return fmt.Errorf("build socks5 dialer: %w", err)
	}

	cd, ok := dialer.(proxy.ContextDialer)
	if !ok {
		return errors.New("socks5 dialer does not support context dialing")
	}

	conn, err := cd.DialContext(ctx, "tcp", p.ProbeAddr)
	if err != nil {
		return fmt.Errorf("socks5 probe via %s: %w", addr, err)
	}
	conn.Close()
	return nil
}

// checkTCPReachable only verifies the proxy endpoint accepts TCP
// connections. Used for SOCKS4 where no Go-side dialer is available.
func (p *Preflight) checkTCPReachable(ctx context.Context, cfg *model.ProxyConfig) error {
	addr := net.JoinHostPort(cfg.Domain, cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("proxy %s not reachable: %w", addr, err)
	}
	conn.Close()
	return nil
}

// checkHTTP tunnels a HEAD request through the proxy.
func (p *Preflight) checkHTTP(ctx context.Context, cfg *model.ProxyConfig) error {
	raw, err := cfg.URL()
	if err != nil {
		return err
	}
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyURL(proxyURL),
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.ProbeURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http probe via %s: %w", proxyURL.Host, err)
	}
	resp.Body.Close()
	return nil
}
