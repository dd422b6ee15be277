package model

import "time"

// Config is the runtime configuration of a checking run, assembled in
// main from the optional settings file and command-line flags.
type Config struct {
	ClientPath      string // external VPN client binary
	InputFile       string // newline-delimited account numbers
	ValidOutputFile string // append-only, accounts that validated
	DeviceLimitFile string // append-only, accounts rejected for device limit

	DelaySeconds    int // pause before each account check
	CooldownSeconds int // pause after each completed check

	ProxyString string // domain:port[:user[:pass]], empty = no proxy
	ProxyKind   string // http | https | socks4 | socks5
	UseProxy    bool

	Preflight bool // probe proxy reachability before starting the batch
	Verbose   bool
}

// Delay returns the pre-check pause as a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Cooldown returns the post-check pause as a duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}
