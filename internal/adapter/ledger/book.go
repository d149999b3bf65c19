package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// Column layout of the production sheet. Data starts on row 2.
const (
	firstDataRow = 2

	colOrderID = 1 // B
	colEmail   = 2 // C
	colLinks   = 3 // D
	colReady   = 4 // E
	colPaid    = 5 // F

	orderIDColumn = "B"
	paidColumn    = "F"
	lastColumn    = "Z"

	// FlagYes is the canonical truthy literal of the flag columns.
	FlagYes = "yes"
)

var linkSeparators = regexp.MustCompile(`[\n,]+`)

// Book maps ProductionRecords onto a sheet of a Gateway.
type Book struct {
	gateway Gateway
	sheet   string
	logger  *slog.Logger
}

// NewBook binds a gateway to a named sheet.
func NewBook(gateway Gateway, sheet string, logger *slog.Logger) *Book {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Book{gateway: gateway, sheet: sheet, logger: logger}
}

// Lookup scans the sheet for the first row whose order id equals any of orderIDs.
func (b *Book) Lookup(ctx context.Context, orderIDs ...string) (*model.ProductionRecord, error) {
	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if id = normalizeID(id); id != "" {
			wanted[id] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return nil, domainErrors.ErrNotFound
	}

	rows, err := b.gateway.ReadRows(ctx, b.rangeOf("A", firstDataRow, lastColumn))
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		id := normalizeID(cell(row, colOrderID))
		if _, ok := wanted[id]; !ok {
			continue
		}
		return &model.ProductionRecord{
			Row:           firstDataRow + i,
			OrderID:       id,
			CustomerEmail: strings.TrimSpace(cell(row, colEmail)),
			ArtifactLinks: splitLinks(cell(row, colLinks)),
			Ready:         isYes(cell(row, colReady)),
			Paid:          isYes(cell(row, colPaid)),
		}, nil
	}
	return nil, domainErrors.ErrNotFound
}

// FindRow returns the sheet row number holding orderID.
func (b *Book) FindRow(ctx context.Context, orderID string) (int, error) {
	target := normalizeID(orderID)
	if target == "" {
		return 0, domainErrors.ErrInvalidOrderID
	}

	rows, err := b.gateway.ReadRows(ctx, b.rangeOf(orderIDColumn, firstDataRow, orderIDColumn))
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if normalizeID(cell(row, 0)) == target {
			return firstDataRow + i, nil
		}
	}
	return 0, domainErrors.ErrNotFound
}

// MarkPaid sets the paid flag of orderID's row. Writing an already set flag is harmless.
func (b *Book) MarkPaid(ctx context.Context, orderID string) (int, error) {
	row, err := b.FindRow(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if err := b.gateway.WriteCell(ctx, b.cellOf(paidColumn, row), FlagYes); err != nil {
		return 0, err
	}
	b.logger.Info("ledger paid flag set", slog.String("order_id", orderID), slog.Int("row", row))
	return row, nil
}

func (b *Book) rangeOf(from string, row int, to string) string {
	return fmt.Sprintf("%s!%s%d:%s", quoteSheet(b.sheet), from, row, to)
}

func (b *Book) cellOf(column string, row int) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(b.sheet), column, row)
}

// quoteSheet renders name as an A1 sheet reference, doubling embedded quotes.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func normalizeID(id string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(id), "#"))
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), FlagYes)
}

func splitLinks(v string) []string {
	var links []string
	for _, part := range linkSeparators.Split(v, -1) {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	return links
}
