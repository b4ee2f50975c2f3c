package transform

import (
	"encoding/base64"
	"strings"
)

// MaxReferenceLength is the longest string still treated as a file reference.
// Inline image data is always longer.
const MaxReferenceLength = 200

// IsReference reports whether a screenshot value already points at a file
// rather than carrying inline data.
func IsReference(value string) bool {
	return value == "" || len(value) <= MaxReferenceLength || strings.HasPrefix(value, "/")
}

// DecodeBase64 decodes standard or URL-safe base64 leniently. A data URI
// prefix is stripped, decoding stops at the first padding character and
// bytes outside the alphabet are ignored, so it never fails.
func DecodeBase64(value string) []byte {
	if strings.HasPrefix(value, "data:") {
		if idx := strings.Index(value, ";base64,"); idx >= 0 {
			value = value[idx+len(";base64,"):]
		}
	}
	if idx := strings.IndexByte(value, '='); idx >= 0 {
		value = value[:idx]
	}
	clean := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
			clean = append(clean, c)
		case c == '-':
			clean = append(clean, '+')
		case c == '_':
			clean = append(clean, '/')
		}
	}
	// a lone trailing sextet carries no complete byte
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	// input is restricted to the alphabet above, so Decode has nothing to reject
	n, _ := base64.RawStdEncoding.Decode(out, clean)
	return out[:n]
}
