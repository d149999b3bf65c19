package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
)

const (
	source = "ledger"

	// ScopeReadOnly is used by status queries.
	ScopeReadOnly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	// ScopeReadWrite is used by the webhook path.
	ScopeReadWrite = "https://www.googleapis.com/auth/spreadsheets"

	valueInputRaw = "RAW"
)

// Gateway is the narrow row read/write port onto the production ledger.
type Gateway interface {
	ReadRows(ctx context.Context, rng string) ([][]string, error)
	WriteCell(ctx context.Context, cell, value string) error
}

// Credentials identifies the service account used to reach the spreadsheet.
type Credentials struct {
	ClientEmail string
	PrivateKey  string
}

// Options configures SheetsGateway.
type Options struct {
	SpreadsheetID string
	Scope         string
	Credentials   Credentials
	// Endpoint overrides the Sheets API base URL.
	Endpoint string
	// HTTPClient replaces service account authentication entirely.
	HTTPClient *http.Client
}

// SheetsGateway implements Gateway over the Google Sheets v4 API.
type SheetsGateway struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewSheetsGateway builds a gateway authenticated with a service account JWT.
func NewSheetsGateway(ctx context.Context, opts Options) (*SheetsGateway, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id must be provided")
	}

	client := opts.HTTPClient
	if client == nil {
		if opts.Credentials.ClientEmail == "" || opts.Credentials.PrivateKey == "" {
			return nil, fmt.Errorf("service account credentials must be provided")
		}
		scope := opts.Scope
		if scope == "" {
			scope = ScopeReadOnly
		}
		conf := &jwt.Config{
			Email:      opts.Credentials.ClientEmail,
			PrivateKey: []byte(opts.Credentials.PrivateKey),
			Scopes:     []string{scope},
			TokenURL:   google.JWTTokenURL,
		}
		client = conf.Client(ctx)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsGateway{values: svc.Spreadsheets.Values, spreadsheetID: opts.SpreadsheetID}, nil
}

// ReadRows returns the formatted cell values of rng. Ragged rows are kept as-is.
func (g *SheetsGateway) ReadRows(ctx context.Context, rng string) ([][]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, domainErrors.Upstream(source, fmt.Errorf("read %s: %w", rng, err))
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCell stores value verbatim in a single cell.
func (g *SheetsGateway) WriteCell(ctx context.Context, cell, value string) error {
	body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := g.values.Update(g.spreadsheetID, cell, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return domainErrors.Upstream(source, fmt.Errorf("write %s: %w", cell, err))
	}
	return nil
}
