package charset

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

// DetectEncoding detects the encoding of a byte buffer. Brazilian marketplace
// exports are either UTF-8 (with or without BOM) or Windows-1252/Latin-1;
// anything that is not valid UTF-8 is treated as Windows-1252, whose printable
// range is a superset of ISO-8859-1.
func DetectEncoding(data []byte) Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string.
// A buffer that is already valid UTF-8 is returned as-is regardless of the
// requested encoding, so a wrong hint never double-decodes.
func Decode(data []byte, enc Encoding) (string, error) {
	data = stripBOM(data)

	if utf8.Valid(data) {
		return string(data), nil
	}

	var cm *charmap.Charmap
	switch enc {
	case EncodingISO88591:
		cm = charmap.ISO8859_1
	default:
		cm = charmap.Windows1252
	}

	reader := transform.NewReader(strings.NewReader(string(data)), cm.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// DecodeAuto detects the encoding and decodes in one step
func DecodeAuto(data []byte) (string, error) {
	return Decode(data, DetectEncoding(data))
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
