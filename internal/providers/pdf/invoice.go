package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
)

const dateLayout = "Jan 2, 2006"

type renderer struct{}

func New() Provider {
	return &renderer{}
}

func (r *renderer) RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice, client clientdomain.Client) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, strings.ToUpper(string(invoice.Status)), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+invoice.IssueDate.Format(dateLayout), props.Text{Top: 4}),
			text.New("Date due: "+invoice.DueDate.Format(dateLayout), props.Text{Top: 8}),
		),
		col.New(6),
	)

	billTo := []string{client.Name}
	if client.Company != "" {
		billTo = append(billTo, client.Company)
	}
	billTo = append(billTo, client.Email)

	billToCol := col.New(6).Add(text.New("Bill to", props.Text{Style: fontstyle.Bold}))
	for i, line := range billTo {
		billToCol.Add(text.New(line, props.Text{Top: float64(5 + i*4)}))
	}
	m.AddRow(30, billToCol, col.New(6))

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, trimZeros(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.Rate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, money(invoice.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Tax", props.Text{Size: 9}),
		text.NewCol(2, money(invoice.Tax), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money(invoice.Total), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Amount paid", props.Text{Size: 9}),
		text.NewCol(2, money(invoice.AmountPaid), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Amount due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, money(invoice.Balance()), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if notes := strings.TrimSpace(invoice.Notes); notes != "" {
		m.AddRow(20,
			text.NewCol(12, "Notes: "+notes, props.Text{Size: 9, Top: 5}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
