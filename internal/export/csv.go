// Package export serializes a user's transactions into the CSV document
// served by the export endpoint.
package export

import (
	"strconv"
	"strings"

	"financas/internal/core"
)

// Header is the fixed first line of every exported document.
const Header = "Data,Tipo,Categoria,Descrição,Valor"

// Filename is the download name advertised via Content-Disposition.
const Filename = "transacoes.csv"

// CSV serializes transactions in order: one line per entry with fields
// date, type, category, description, value joined by commas.
//
// Free-form fields are not escaped, so a comma or newline inside a
// description shifts columns in the output. Known limitation, kept for
// compatibility with existing consumers of the export.
func CSV(transactions []core.Transaction) []byte {
	lines := make([]string, len(transactions))
	for i, t := range transactions {
		lines[i] = strings.Join([]string{
			t.Date,
			t.Type,
			t.Category,
			t.Description,
			formatValue(t.Value),
		}, ",")
	}
	return []byte(Header + "\n" + strings.Join(lines, "\n"))
}

// formatValue renders the amount with minimal digits, keeping one decimal
// for integral values so 1000 exports as "1000.0".
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
