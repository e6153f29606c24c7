package palletgen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// identifier converts a metadata name (snake_case or CamelCase) into
// a Go identifier, keeping existing capitalization within segments.
func identifier(s string) string {
	fs := strings.Split(s, "_")
	for i := range fs {
		switch fs[i] {
		case "id":
			fs[i] = "ID"
		case "":
		default:
			if i > 0 {
				fs[i] = title(fs[i])
			}
		}
	}
	return strings.Join(fs, "")
}

// publicIdentifier is identifier with an exported first letter.
func publicIdentifier(s string) string {
	return title(identifier(s))
}

func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// goFieldName returns the Go struct field name for the i-th field,
// falling back to positional names for unnamed tuple-style fields.
func goFieldName(name string, i int) string {
	if name == "" {
		return "F" + strconv.Itoa(i)
	}
	return publicIdentifier(name)
}
