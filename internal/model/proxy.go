package model

// ProxyKind is the protocol spoken to the upstream proxy.
type ProxyKind string

const (
	ProxyHTTP   ProxyKind = "http"
	ProxyHTTPS  ProxyKind = "https"
	ProxySOCKS4 ProxyKind = "socks4"
	ProxySOCKS5 ProxyKind = "socks5"
)

// ProxyConfig is an immutable description of an upstream proxy,
// parsed from strings such as:
//
//	proxy.example.com:1080
//	proxy.example.com:1080:user:pass
//
// Domain and Port are always set; Username/Password only when the
// source string carried them.
type ProxyConfig struct {
	Domain   string
	Port     string
	Username string
	Password string
	Kind     ProxyKind
}

// URL renders the proxy as a connection URL:
//
//	<kind>://[user:pass@]domain:port
//
// Credentials are included only when both username and password are set.
// Fails with ErrProxyKindUnset if Kind was never assigned.
func (p *ProxyConfig) URL() (string, error) {
	if p.Kind == "" {
		return "", ErrProxyKindUnset
	}

	u := string(p.Kind) + "://"
	if p.Username != "" && p.Password != "" {
		u += p.Username + ":" + p.Password + "@"
	}
	u += p.Domain + ":" + p.Port
	return u, nil
}

// EnvOverrides returns the environment variables to inject into the
// external client's process so that its network traffic goes through
// the proxy.
//
// HTTP/HTTPS proxies set HTTP_PROXY and HTTPS_PROXY to the same URL.
// SOCKS proxies set ALL_PROXY in both spellings, because the client's
// underlying libraries are inconsistent about which casing they read.
func (p *ProxyConfig) EnvOverrides() (map[string]string, error) {
	u, err := p.URL()
	if err != nil {
		return nil, err
	}

	switch p.Kind {
	case ProxyHTTP, ProxyHTTPS:
		return map[string]string{
			"HTTP_PROXY":  u,
			"HTTPS_PROXY": u,
		}, nil
	default: // socks4, socks5
		return map[string]string{
			"ALL_PROXY": u,
			"all_proxy": u,
		}, nil
	}
}
