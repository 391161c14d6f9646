// internal/adapters/out/i18n/localizer.go
package i18n

import (
	"strings"

	"boutique/internal/application/dto"
)

// Localizer maps validation error codes to display strings. The core
// only produces codes; rendering text is this collaborator's concern.
type Localizer interface {
	Localize(code string) string
}

// StaticLocalizer serves messages from an in-memory table. Unknown
// codes fall back to the code itself so nothing is ever swallowed.
type StaticLocalizer struct {
	messages map[string]string
}

// NewEnglish returns the default English message table.
func NewEnglish() *StaticLocalizer {
	return &StaticLocalizer{messages: map[string]string{
		dto.ErrorMissingName:             "Please enter a name",
		dto.ErrorMissingStock:            "Please enter a stock value",
		dto.ErrorStockNotAnInteger:       "The value entered for the stock must be an integer",
		dto.ErrorStockNotGreaterThanZero: "The stock must be greater than zero",
		dto.ErrorMissingPrice:            "Please enter a price",
		dto.ErrorPriceNotANumber:         "The value entered for the price must be a number",
		dto.ErrorPriceNotGreaterThanZero: "The price must be greater than zero",
	}}
}

func (l *StaticLocalizer) Localize(code string) string {
	code = strings.TrimSpace(code)
	if l == nil || l.messages == nil {
		return code
	}
	if msg, ok := l.messages[code]; ok {
		return msg
	}
	return code
}
