package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when Config.Encoding is empty.
const DefaultEncoding = "utf-8"

// codec decodes raw resource bytes into text.
type codec struct {
	name  string
	enc   encoding.Encoding
	utf8  bool
	ascii bool
}

// Codec names whose WHATWG meaning differs from the character set they
// name. WHATWG maps all of them to windows-1252.
var (
	latin1Aliases = map[string]bool{
		"latin-1": true, "latin1": true, "latin": true, "l1": true,
		"iso-8859-1": true, "iso8859-1": true, "8859": true, "cp819": true,
	}
	asciiAliases = map[string]bool{
		"ascii": true, "us-ascii": true, "646": true, "us": true,
	}
)

// lookupEncoding resolves an encoding label. Latin-1 and ASCII spellings
// are matched first, then IANA names, MIME names and finally WHATWG labels.
func lookupEncoding(name string) (*codec, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		label = DefaultEncoding
	}

	key := strings.ReplaceAll(strings.ToLower(label), "_", "-")
	switch {
	case latin1Aliases[key]:
		return &codec{name: label, enc: charmap.ISO8859_1}, nil
	case asciiAliases[key]:
		return &codec{name: label, ascii: true}, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		enc, err = ianaindex.MIME.Encoding(label)
	}
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(label)
	}
	if err == nil && enc == nil {
		err = fmt.Errorf("encoding %q is not supported", label)
	}
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}

	return &codec{
		name: label,
		enc:  enc,
		utf8: enc == unicode.UTF8,
	}, nil
}

// decode converts data to a Go string. UTF-8 and ASCII input is validated
// strictly rather than having invalid sequences replaced.
func (c *codec) decode(data []byte) (string, error) {
	switch {
	case c.utf8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid %s byte sequence", c.name)
		}
		return string(data), nil
	case c.ascii:
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("invalid %s byte 0x%02x at offset %d", c.name, b, i)
			}
		}
		return string(data), nil
	}

	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}

	return string(out), nil
}
