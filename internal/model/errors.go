package model

import "errors"

// Sentinel errors. Configuration errors fail fast before a batch starts;
// execution errors are converted into per-account outcomes and never
// abort a running batch.
var (
	// ErrProxyFormat means the proxy string did not contain at least
	// domain and port.
	ErrProxyFormat = errors.New("proxy must at least contain domain:port")
	// ErrUnsupportedProxyKind means the proxy kind is none of
	// http, https, socks4, socks5.
	ErrUnsupportedProxyKind = errors.New("unsupported proxy kind")
	// ErrProxyKindUnset means a URL was requested from a ProxyConfig
	// whose kind was never assigned.
	ErrProxyKindUnset = errors.New("proxy kind must be set")
	// ErrExecution wraps a non-zero exit of the external client.
	ErrExecution = errors.New("command execution failed")
	// ErrNoAccounts means Start was called with an empty account list.
	ErrNoAccounts = errors.New("no accounts to check")
)
