package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"finances/internal/core"
	"finances/internal/log"
	ports "finances/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ ports.LedgerMirror = (*Client)(nil)

// Options configures a Client. One of CredentialsJSON or CredentialsFile
// is required unless ClientOptions supplies authentication.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
	Currency        string

	// ClientOptions are appended to the service options; tests use them to
	// point the client at a local server.
	ClientOptions []goption.ClientOption
}

// Client mirrors the ledger into one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	formatter     core.Formatter
	logger        *log.Logger
}

func New(ctx context.Context, opts Options, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
		formatter:     core.NewFormatter(opts.Currency),
		logger:        logger,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options, logger *log.Logger) (*gsheet.Service, error) {
	serviceOpts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}

	switch {
	case opts.CredentialsJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		serviceOpts = append(serviceOpts, goption.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", opts.CredentialsFile)
		credentialsJSON, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		serviceOpts = append(serviceOpts, goption.WithCredentialsJSON(credentialsJSON))
	case len(opts.ClientOptions) == 0:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx, append(serviceOpts, opts.ClientOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Mirror clears the sheet and writes a header, one row per transaction in
// ledger order and the three totals.
func (c *Client) Mirror(ctx context.Context, txs []core.Transaction) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:D", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	rows := buildRows(txs, c.formatter)
	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", writeRange, err)
	}

	c.logger.InfoContext(ctx, "Ledger mirrored",
		log.FieldOperation, log.OpMirror,
		log.FieldLedgerLength, len(txs),
		"sheet", c.sheetName)
	return nil
}

var header = []interface{}{"Date", "Description", "Type", "Amount"}

// buildRows lays out the sheet. Amounts are plain decimals in the
// formatter's currency so the sheet can sum them.
func buildRows(txs []core.Transaction, f core.Formatter) [][]interface{} {
	rows := make([][]interface{}, 0, len(txs)+5)
	rows = append(rows, header)

	ledger := core.NewLedger(txs...)
	for _, tx := range txs {
		rows = append(rows, []interface{}{tx.Date, tx.Description, tx.Kind(), f.Decimal(tx.Amount.Cents)})
	}

	b := ledger.Balance()
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"", "Income", "", f.Decimal(b.Income.Cents)},
		[]interface{}{"", "Expense", "", f.Decimal(b.Expense.Cents)},
		[]interface{}{"", "Total", "", f.Decimal(b.Total.Cents)},
	)
	return rows
}
