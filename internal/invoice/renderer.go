package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// PublicPrefix is the URL path invoices are served under.
const PublicPrefix = "/files/invoices/"

var pageTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v decimal.Decimal) string { return v.StringFixed(2) },
}).Parse(invoiceHTML))

// FileRenderer writes HTML invoices into a directory.
type FileRenderer struct {
	dir     string
	baseURL string
	newID   func() string
}

// NewFileRenderer stores invoices in dir and links them from baseURL.
func NewFileRenderer(dir, baseURL string) *FileRenderer {
	return &FileRenderer{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   uuid.NewString,
	}
}

// Dir returns the storage directory.
func (r *FileRenderer) Dir() string { return r.dir }

type page struct {
	model.InvoiceSnapshot
	QRPayload string
}

// Render writes a new file for snapshot. Each call produces a distinct name.
func (r *FileRenderer) Render(ctx context.Context, snapshot model.InvoiceSnapshot) (*model.InvoiceDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoice dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.html", snapshot.OrderNumber, r.newID())
	qr := r.baseURL + "/orders/" + snapshot.OrderNumber

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page{InvoiceSnapshot: snapshot, QRPayload: qr}); err != nil {
		return nil, fmt.Errorf("execute invoice template: %w", err)
	}

	path := filepath.Join(r.dir, name)
	tmp, err := os.CreateTemp(r.dir, ".invoice-*")
	if err != nil {
		return nil, fmt.Errorf("create invoice file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write invoice file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("close invoice file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("publish invoice file: %w", err)
	}

	return &model.InvoiceDocument{
		URL:       r.baseURL + PublicPrefix + name,
		QRPayload: qr,
		Path:      path,
		Filename:  name,
	}, nil
}

// Locate resolves a previously issued URL to a file on disk.
func (r *FileRenderer) Locate(url string) (*model.InvoiceDocument, bool) {
	name, ok := r.fileName(url)
	if !ok {
		return nil, false
	}
	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, false
	}
	return &model.InvoiceDocument{URL: url, Path: path, Filename: name}, true
}

// Remove deletes the file behind url. Missing files are ignored.
func (r *FileRenderer) Remove(url string) error {
	name, ok := r.fileName(url)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove invoice: %w", err)
	}
	return nil
}

func (r *FileRenderer) fileName(url string) (string, bool) {
	idx := strings.LastIndex(url, PublicPrefix)
	if idx < 0 {
		return "", false
	}
	name := url[idx+len(PublicPrefix):]
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}

const invoiceHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Invoice {{.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
th, td { border-bottom: 1px solid #ddd; padding: 8px; text-align: left; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
.qr { margin-top: 32px; font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>Invoice {{.Number}}</h1>
<p>Order <strong>{{.OrderNumber}}</strong><br>
Issued {{.IssuedAt.Format "02 Jan 2006"}}<br>
Payment: {{.PaymentMethod}} ({{.PaymentStatus}})</p>

<h3>Bill to</h3>
<p>{{.BuyerName}}<br>
{{.BuyerEmail}}<br>
{{.Address.Phone}}<br>
{{.Address.Address}}, {{.Address.City}}<br>
{{.Address.County}} {{.Address.PostalCode}}</p>

<table>
<thead><tr><th>Item</th><th>Category</th><th class="num">Unit price</th><th class="num">Qty</th><th class="num">Total</th></tr></thead>
<tbody>
{{- range .Lines}}
<tr><td>{{.Description}}</td><td>{{.Category}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .Total}}</td></tr>
{{- end}}
</tbody>
</table>

<table class="totals">
<tr><td class="num">Subtotal</td><td class="num">{{.Currency}} {{money .Subtotal}}</td></tr>
<tr><td class="num">Tax</td><td class="num">{{.Currency}} {{money .Tax}}</td></tr>
<tr><td class="num">Shipping &amp; installation</td><td class="num">{{.Currency}} {{money .Shipping}}</td></tr>
<tr><td class="num"><strong>Total</strong></td><td class="num"><strong>{{.Currency}} {{money .Total}}</strong></td></tr>
</table>

<p class="qr">Scan or visit to track this order: <a href="{{.QRPayload}}">{{.QRPayload}}</a></p>
</body>
</html>
`
