package analytics

import (
	"testing"
	"time"

	"github.com/August26/nullvadcheck-go/internal/model"
)

func TestCompute(t *testing.T) {
	outcomes := []model.Outcome{
		{Account: "1111", Category: model.CategoryValid, Message: "Valid until 2026-12-31"},
		{Account: "2222", Category: model.CategoryInvalid, Message: "Account expired"},
		{Account: "3333", Category: model.CategoryInvalid, Message: string(model.ReasonTooManyDevices)},
		{Account: "4444", Category: model.CategoryError, Message: string(model.ReasonUnknownResponse)},
	}

	stats := Compute(outcomes, 3*time.Second)

	if stats.TotalAccounts != 4 {
		t.Errorf("TotalAccounts = %d, want 4", stats.TotalAccounts)
	}
	if stats.ValidAccounts != 1 {
		t.Errorf("ValidAccounts = %d, want 1", stats.ValidAccounts)
	}
	if stats.InvalidAccounts != 2 {
		t.Errorf("InvalidAccounts = %d, want 2", stats.InvalidAccounts)
	}
	if stats.ErrorAccounts != 1 {
		t.Errorf("ErrorAccounts = %d, want 1", stats.ErrorAccounts)
	}
	if stats.DeviceLimited != 1 {
		t.Errorf("DeviceLimited = %d, want 1", stats.DeviceLimited)
	}
	if stats.ValidRatePct != 25.0 {
		t.Errorf("ValidRatePct = %.1f, want 25.0", stats.ValidRatePct)
	}
	if stats.TotalProcessingTimeMs != 3000 {
		t.Errorf("TotalProcessingTimeMs = %d, want 3000", stats.TotalProcessingTimeMs)
	}
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil, 0)
	if stats.TotalAccounts != 0 || stats.ValidRatePct != 0 {
		t.Fatalf("empty compute = %#v", stats)
	}
}
