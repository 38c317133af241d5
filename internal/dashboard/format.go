package dashboard

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCount renders n with Brazilian digit grouping (1.234.567).
func FormatCount(n int) string {
	return ptBR.Sprintf("%d", n)
}
