//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finbot/internal/analytics"
	"finbot/internal/core"
	ports "finbot/internal/sheets"
)

// Run with: go test -tags=integration ./internal/sheets/google
func TestIntegration_ExportFlow(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewFromEnv(ctx, spreadsheetID, "FinBot Test", nil)
	require.NoError(t, err)

	ref, err := client.AppendExpense(ctx, ports.ExpenseRow{
		At:        time.Now(),
		Category:  "integration",
		Amount:    1.23,
		Remaining: 0,
	})
	require.NoError(t, err)
	t.Logf("appended at %s", ref)

	snap := core.NewDefaultSnapshot()
	ref, err = client.WriteSummary(ctx, analytics.Summarize(snap), analytics.HealthScore(snap))
	require.NoError(t, err)
	t.Logf("summary at %s", ref)
}
