// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// LineSnapshot is stored inside Order.Lines. It captures the product as
// sold; later catalog edits do not rewrite past orders.
type LineSnapshot struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// ========================================
// Entity
// ========================================

// Order is the persisted record of one checkout.
type Order struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Lines     []LineSnapshot  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID        = errors.New("order: invalid id")
	ErrInvalidSessionID = errors.New("order: invalid sessionId")
	ErrInvalidLines     = errors.New("order: invalid lines")
	ErrInvalidCreatedAt = errors.New("order: invalid createdAt")
)

// ========================================
// Policy
// ========================================

var MinLinesRequired = 1

// ========================================
// Constructors
// ========================================

// New builds an order from line snapshots. The grand total is derived
// from the lines, never taken from the caller.
func New(id, sessionID string, lines []LineSnapshot, now time.Time) (*Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, ErrInvalidID
	}
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrInvalidSessionID
	}
	if len(lines) < MinLinesRequired {
		return nil, ErrInvalidLines
	}
	if now.IsZero() {
		return nil, ErrInvalidCreatedAt
	}

	total := decimal.Zero
	cp := make([]LineSnapshot, 0, len(lines))
	for _, ln := range lines {
		if ln.ProductID == 0 || ln.Quantity <= 0 {
			return nil, ErrInvalidLines
		}
		ln.LineTotal = ln.UnitPrice.Mul(decimal.NewFromInt(int64(ln.Quantity)))
		total = total.Add(ln.LineTotal)
		cp = append(cp, ln)
	}

	return &Order{
		ID:        oid,
		SessionID: sid,
		Lines:     cp,
		Total:     total,
		CreatedAt: now,
	}, nil
}
