package cli

import (
	"encoding/json"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formatea números con los separadores de miles de Indonesia (1.250.000).
var printer = message.NewPrinter(language.Indonesian)

// rupiah formatea un monto entero en Rupiah.
func rupiah(amount int64) string {
	if amount < 0 {
		return printer.Sprintf("-Rp%d", -amount)
	}
	return printer.Sprintf("Rp%d", amount)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
