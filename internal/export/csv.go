// internal/export/csv.go
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/javajoker/catalog-admin/internal/models"
)

// Header is the column row for the default catalog currency.
var Header = HeaderFor(models.DefaultCurrency)

// HeaderFor names the price column after currency.
func HeaderFor(currency string) []string {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return []string{
		"ID",
		"Name",
		"Category",
		"Description",
		"Price (" + currency + ")",
		"Stock",
		"New Arrival",
		"In Stock",
		"Sizes",
		"Colors",
		"Created At",
	}
}

// Exporter renders product lists as CSV in a declared charset. Every field is
// quoted, numbers and booleans included, which encoding/csv does not do.
type Exporter struct {
	prefix  string
	charset string
	header  []string
	enc     encoding.Encoding
}

func NewExporter(prefix, charset, currency string) (*Exporter, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported export charset %q: %w", charset, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(charset)
	}
	return &Exporter{prefix: prefix, charset: name, header: HeaderFor(currency), enc: enc}, nil
}

func (e *Exporter) Charset() string { return e.charset }

func (e *Exporter) ContentType() string {
	return "text/csv; charset=" + e.charset
}

// Filename is "<prefix>_inventory_<YYYY-MM-DD>.csv" for the UTC date of t.
func (e *Exporter) Filename(t time.Time) string {
	return fmt.Sprintf("%s_inventory_%s.csv", e.prefix, t.UTC().Format("2006-01-02"))
}

// Text renders the header and one row per product in input order. Rows are
// joined by "\n" with no trailing newline.
func Text(products []models.Product) string {
	return render(Header, products)
}

// Text is the package Text with the exporter's currency in the header.
func (e *Exporter) Text(products []models.Product) string {
	return render(e.header, products)
}

func render(header []string, products []models.Product) string {
	lines := make([]string, 0, len(products)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, p := range products {
		lines = append(lines, row(p))
	}
	return strings.Join(lines, "\n")
}

// Write encodes e.Text(products) into the exporter's charset. Characters the
// charset cannot represent are replaced rather than failing the export.
func (e *Exporter) Write(w io.Writer, products []models.Product) error {
	encoder := encoding.ReplaceUnsupported(e.enc.NewEncoder())
	tw := transform.NewWriter(w, encoder)
	if _, err := io.WriteString(tw, e.Text(products)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return tw.Close()
}

func row(p models.Product) string {
	id := ""
	if p.ID != uuid.Nil {
		id = p.ID.String()
	}
	createdAt := ""
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}

	fields := []string{
		id,
		p.Name,
		p.Category,
		p.Description,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Stock),
		strconv.FormatBool(p.IsNew),
		strconv.FormatBool(p.InStock),
		strings.Join(p.Sizes, ", "),
		strings.Join(p.Colors, ", "),
		createdAt,
	}
	for i, f := range fields {
		fields[i] = quote(f)
	}
	return strings.Join(fields, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
