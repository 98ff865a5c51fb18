package naming

import (
	"strings"
	"unicode"

	"facade-generator/internal/common"
)

// Ident turns an arbitrary type expression into an exported identifier:
// "map[string]int" -> "MapStringInt", "*time.Time" -> "TimeTime".
func Ident(expr string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(expr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		b.WriteString(common.Exported(word))
	}

	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "T" + out
	}

	return out
}

// FileName returns the file an artifact named name is written to.
func FileName(name string) string {
	return common.SnakeCase(name) + ".go"
}

// Param returns a usable parameter name for position i.
func Param(name string, i int) string {
	if name == "" || name == "_" || name == "a" || name == "raw" {
		return "p" + itoa(i)
	}

	return name
}

func itoa(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return digits[i : i+1]
	}

	return itoa(i/10) + digits[i%10:i%10+1]
}
