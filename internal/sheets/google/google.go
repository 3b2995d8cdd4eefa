package google

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finbot/internal/analytics"
	"finbot/internal/log"
	ports "finbot/internal/sheets"
)

const defaultSheetName = "FinBot"

// Client writes ledger data into one spreadsheet: expenses are appended to
// the expenses sheet and the summary sheet is rewritten on every export.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	summarySheet  string
	logger        *log.Logger
}

var (
	_ ports.ExpenseAppender = (*Client)(nil)
	_ ports.SummaryWriter   = (*Client)(nil)
)

// New wraps an existing service. sheetName is the base name; the summary
// goes to "<sheetName> Summary".
func New(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) (*Client, error) {
	if svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		expensesSheet: sheetName,
		summarySheet:  sheetName + " Summary",
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// NewFromEnv creates a client authenticated with service account credentials
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, sheetName string, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return New(svc, spreadsheetID, sheetName, logger)
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// AppendExpense adds a row (timestamp, category, amount, remaining) after the
// last filled row of the expenses sheet.
func (c *Client) AppendExpense(ctx context.Context, row ports.ExpenseRow) (string, error) {
	if strings.TrimSpace(row.Category) == "" {
		return "", errors.New("expense row has no category")
	}
	rng := fmt.Sprintf("%s!A:D", c.expensesSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		row.At.UTC().Format(time.RFC3339),
		row.Category,
		row.Amount,
		row.Remaining,
	}}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.expensesSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.DebugContext(ctx, "Expense appended to sheet",
		log.FieldCategory, row.Category,
		log.FieldLocation, ref)
	return ref, nil
}

// WriteSummary clears the summary sheet and writes a header, one row per
// category and a trailing health score row.
func (c *Client) WriteSummary(ctx context.Context, rows []analytics.CategorySummary, healthScore int) (string, error) {
	clearRng := fmt.Sprintf("%s!A:E", c.summarySheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", c.summarySheet, err)
	}

	values := summaryValues(rows, healthScore)
	rng := fmt.Sprintf("%s!A1:E%d", c.summarySheet, len(values))
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", c.summarySheet, err)
	}

	ref := rng
	if resp.UpdatedRange != "" {
		ref = resp.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Summary written to sheet",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(rows),
		log.FieldLocation, ref)
	return ref, nil
}

func summaryValues(rows []analytics.CategorySummary, healthScore int) [][]any {
	values := make([][]any, 0, len(rows)+2)
	values = append(values, []any{"Category", "Spent", "Budget", "Remaining", "Used %"})
	for _, r := range rows {
		values = append(values, []any{r.Category, r.Spent, r.Budget, r.Remaining, roundTenth(r.Percentage)})
	}
	values = append(values, []any{"Health score", healthScore})
	return values
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
