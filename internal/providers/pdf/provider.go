// Package pdf renders invoices to PDF documents.
package pdf

import (
	"context"
	"io"

	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	"go.uber.org/fx"
)

type Provider interface {
	RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice, client clientdomain.Client) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
