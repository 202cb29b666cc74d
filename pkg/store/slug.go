package store

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/records"
)

// Slug turns a display name into a lower-case ASCII file name fragment.
// Accents are folded, other characters outside [a-z0-9] collapse into a
// single dash and leading or trailing dashes are trimmed.
//
//	Slug("Ventes été / 2024") == "ventes-ete-2024"
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// FileName is the split-layout file name of r: "{id}-{slug}.yaml".
// Records not yet known remotely use their redpush_id in place of the id.
func FileName(r *records.Record) string {
	var prefix string
	if id, ok := r.ID(); ok {
		prefix = fmt.Sprint(id)
	} else if key, ok := r.RedpushID(); ok {
		prefix = Slug(key.String())
	}

	slug := Slug(r.Name())
	switch {
	case prefix == "" && slug == "":
		return "record" + constants.YAMLExtension
	case prefix == "":
		return slug + constants.YAMLExtension
	case slug == "":
		return prefix + constants.YAMLExtension
	}
	return prefix + "-" + slug + constants.YAMLExtension
}
