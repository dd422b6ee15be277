package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// LoadAccounts reads a file line by line and returns the account numbers
// it contains, in file order.
//
// Empty lines and lines starting with '#' are ignored; surrounding
// whitespace is trimmed. The engine itself never dedupes accounts, so
// repeated lines produce repeated checks.
func LoadAccounts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input file: %w", err)
	}
	return out, nil
}

// ParseProxy parses a colon-delimited proxy string together with its kind.
//
// Supported:
//
//	domain:port
//	domain:port:user
//	domain:port:user:pass
//
// An empty raw string or an empty kind means "no proxy" and yields
// (nil, nil), not an error. The kind is matched case-insensitively
// against http, https, socks4 and socks5.
func ParseProxy(raw, kind string) (*model.ProxyConfig, error) {
	if raw == "" || kind == "" {
		return nil, nil
	}

	var pk model.ProxyKind
	switch strings.ToLower(kind) {
	case "http":
		pk = model.ProxyHTTP
	case "https":
		pk = model.ProxyHTTPS
	case "socks4":
		pk = model.ProxySOCKS4
	case "socks5":
		pk = model.ProxySOCKS5
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedProxyKind, kind)
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", model.ErrProxyFormat, raw)
	}

	cfg := &model.ProxyConfig{
		Domain: parts[0],
		Port:   parts[1],
		Kind:   pk,
	}
	if len(parts) > 2 {
		cfg.Username = parts[2]
	}
	if len(parts) > 3 {
		cfg.Password = parts[3]
	}
	return cfg, nil
}
