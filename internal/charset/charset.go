// Package charset resolves IANA charset names and encodes UTF-8 text for the
// wire. Reading non-UTF-8 content back is not supported by the library.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// DefaultName is the charset used when the caller does not pick one.
const DefaultName = "utf-8"

// IsUTF8 reports whether name denotes UTF-8 (or is empty, meaning default).
func IsUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Encode converts UTF-8 text into the named charset. UTF-8 (or an empty
// name) passes the bytes through.
func Encode(text, name string) ([]byte, error) {
	if IsUTF8(name) {
		return []byte(text), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset %q", name)
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", name, err)
	}
	return out, nil
}
