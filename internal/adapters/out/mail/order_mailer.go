// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "boutique/internal/domain/order"
)

// OrderMailer sends the back-office notification for a placed order.
// It satisfies the usecase OrderNotifier port.
type OrderMailer struct {
	client Client
	from   string
	to     string
}

func NewOrderMailer(client Client, from, to string) *OrderMailer {
	return &OrderMailer{
		client: client,
		from:   strings.TrimSpace(from),
		to:     strings.TrimSpace(to),
	}
}

func (m *OrderMailer) NotifyOrderPlaced(ctx context.Context, o *orderdom.Order) error {
	if m == nil || m.client == nil {
		return errors.New("order_mailer: client is nil")
	}
	if o == nil {
		return errors.New("order_mailer: order is nil")
	}

	subject := fmt.Sprintf("New order %s", o.ID)

	var b strings.Builder
	fmt.Fprintf(&b, "Order %s placed at %s\n\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	for _, ln := range o.Lines {
		fmt.Fprintf(&b, "  %dx %s @ %s = %s\n", ln.Quantity, ln.Name, ln.UnitPrice.String(), ln.LineTotal.String())
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", o.Total.String())

	return m.client.Send(ctx, m.from, m.to, subject, b.String())
}
