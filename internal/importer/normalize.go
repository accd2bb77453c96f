package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName normalizes an employee name for duplicate detection:
// lowercase, no diacritics, collapsed whitespace, honorific titles
// stripped. Legacy HR exports carry names like "Drs. H. Budi Santoso,
// M.Si" for the same person entered elsewhere as "Budi Santoso".
func NormalizeName(name string) string {
	name = removeDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")

	fields := strings.Fields(name)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, ".", "")
		f = strings.Trim(f, ",")
		if f == "" || isTitle(f) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// isTitle reports whether a name fragment is an Indonesian honorific or
// academic title rather than part of the name.
func isTitle(s string) bool {
	switch s {
	case "drs", "dra", "dr", "ir", "h", "hj", "st", "se", "si", "sh", "sp", "spd", "skom", "ssos",
		"m", "mm", "msi", "mpd", "mkom", "ma", "amd":
		return true
	}
	return false
}
