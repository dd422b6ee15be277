package checker

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// ResultSink receives the accounts the validator decides to persist.
// Implemented by output.Sink.
type ResultSink interface {
	RecordValid(account, expiry string) error
	RecordDeviceLimit(account string) error
}

// The external client's output contract. Classification is substring
// based, so this wording must be preserved verbatim. The login rules are
// evaluated top to bottom: device-limit and not-found are both terminal
// negative classifications distinguishable only by output text and must
// be checked before the generic fallback.
const (
	markerLoginSet       = `Mullvad account "%s" set` // %s = account number
	markerTooManyDevices = "There are too many devices on the account."
	markerNotFound       = "The account does not exist"
)

// loginRejections maps failure markers to rejection reasons, in match
// priority order. Kept apart from the matching loop so the wording can
// change without touching control flow.
var loginRejections = []struct {
	marker string
	reason model.Reason
}{
	{markerTooManyDevices, model.ReasonTooManyDevices},
	{markerNotFound, model.ReasonNotFound},
}

var expiryPattern = regexp.MustCompile(`Expires at:\s+(\d{4}-\d{2}-\d{2})`)

// Validator drives the external client's login / status / logout
// commands for single accounts and classifies their textual output.
// It is stateless apart from its collaborators; the client itself holds
// the "currently logged in" state between SetAccount and Validity.
type Validator struct {
	runner     CommandRunner
	sink       ResultSink
	clientPath string
	env        map[string]string // proxy overrides, nil when proxying is off
	log        *slog.Logger

	now func() time.Time // injected clock for tests
}

// NewValidator builds a validator around the given runner and sink.
// env holds proxy environment overrides and may be nil.
func NewValidator(runner CommandRunner, sink ResultSink, clientPath string, env map[string]string, log *slog.Logger) *Validator {
	return &Validator{
		runner:     runner,
		sink:       sink,
		clientPath: clientPath,
		env:        env,
		log:        log,
		now:        time.Now,
	}
}

// SetAccount attempts to log the external client into the account and
// classifies the result. Accepted means the client is now logged in and
// Validity may be called. An empty account is rejected without running
// anything.
//
// A device-limit rejection is additionally appended to the device-limit
// result file.
func (v *Validator) SetAccount(ctx context.Context, account string) (bool, model.Reason) {
	if strings.TrimSpace(account) == "" {
		return false, model.ReasonEmptyInput
	}

	out, err := v.runner.Run(ctx, v.env, v.clientPath, "account", "login", account)
	if err != nil || out == "" {
		v.log.Error("login command failed", "account", account, "err", err)
		return false, model.ReasonExecutionFailed
	}

	if strings.Contains(out, loginSuccessMarker(account)) {
		v.log.Info("account set", "account", account)
		return true, ""
	}

	for _, r := range loginRejections {
		if strings.Contains(out, r.marker) {
			v.log.Info("account rejected", "account", account, "reason", string(r.reason))
			if r.reason == model.ReasonTooManyDevices {
				if err := v.sink.RecordDeviceLimit(account); err != nil {
					v.log.Error("failed to record device-limit account", "account", account, "err", err)
				}
			}
			return false, r.reason
		}
	}

	v.log.Warn("unrecognized login output", "account", account)
	return false, model.ReasonUnknownResponse
}

// Validity asks the client for the status of the currently logged-in
// account and decides whether it is still paid up. Callers must have
// called SetAccount first.
//
// The expiry date is read from the fixed "Expires at: YYYY-MM-DD"
// pattern and interpreted as the end of that calendar day in UTC. Any
// parse failure yields an invalid status rather than an error, so a
// batch never aborts here. Valid accounts are appended to the
// valid-accounts result file.
func (v *Validator) Validity(ctx context.Context, account string) model.AccountStatus {
	out, err := v.runner.Run(ctx, v.env, v.clientPath, "account", "get")
	if err != nil || out == "" {
		v.log.Error("status command failed", "account", account, "err", err)
		return model.AccountStatus{
			AccountNumber: account,
			ErrorMessage:  "failed to get account info",
		}
	}

	m := expiryPattern.FindStringSubmatch(out)
	if m == nil {
		return model.AccountStatus{
			AccountNumber: account,
			ErrorMessage:  "could not find expiry date",
		}
	}

	expiresAt := m[1]
	day, err := time.Parse("2006-01-02", expiresAt)
	if err != nil {
		v.log.Error("failed to parse expiry date", "account", account, "raw", expiresAt, "err", err)
		return model.AccountStatus{
			AccountNumber: account,
			ErrorMessage:  "error parsing expiry date: " + err.Error(),
		}
	}

	// End of the expiry day, UTC.
	expiry := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999999000, time.UTC)
	isValid := !expiry.Before(v.now().UTC())

	if isValid {
		v.log.Info("valid account found", "account", account, "expires", expiresAt)
		if err := v.sink.RecordValid(account, expiresAt); err != nil {
			v.log.Error("failed to record valid account", "account", account, "err", err)
		}
	} else {
		v.log.Info("expired account", "account", account, "expired", expiresAt)
	}

	return model.AccountStatus{
		AccountNumber: account,
		IsValid:       isValid,
		ExpiryDate:    expiry,
	}
}

// Logout logs the client out of the current account. Best-effort
// cleanup: failures are logged, never escalated. Returns whether the
// command produced any output.
func (v *Validator) Logout(ctx context.Context) bool {
	out, err := v.runner.Run(ctx, v.env, v.clientPath, "account", "logout")
	if err != nil || out == "" {
		v.log.Warn("logout failed", "err", err)
		return false
	}
	v.log.Debug("logged out")
	return true
}

func loginSuccessMarker(account string) string {
	return fmt.Sprintf(markerLoginSet, account)
}
