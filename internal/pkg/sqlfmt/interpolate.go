package sqlfmt

import (
	"fmt"
	"strings"

	"github.com/veiligstallen/reports/internal/pkg/constants"
)

// Quote escapes v for use as a single-quoted Postgres string literal.
// Backslashes are doubled so the literal stays safe even when the server
// runs with standard_conforming_strings off.
func Quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `''`)
	return "'" + v + "'"
}

// Interpolate replaces every `?` placeholder in query, in order, with the
// corresponding value from params, quoted as a string literal. The report
// builders assemble statements out of repeated per-bikepark UNION ALL
// blocks, which a single prepared statement cannot express; this is the
// escaping path those statements go through instead of native binding.
//
// A `?` inside a single-quoted literal is not a placeholder. The number of
// placeholders must match len(params) exactly.
func Interpolate(query string, params []string) (string, error) {
	var b strings.Builder
	b.Grow(len(query) + 16*len(params))

	var (
		inLiteral bool
		next      int
	)
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
		case r == '?' && !inLiteral:
			if next >= len(params) {
				next++ // keep counting for the error message
				continue
			}
			b.WriteString(Quote(params[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}

	if next != len(params) {
		return "", fmt.Errorf("%w: query has %d placeholders, got %d params",
			constants.ErrInvalidParams, next, len(params))
	}

	return b.String(), nil
}
