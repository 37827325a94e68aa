package inf

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	EncodingUTF16LE    Encoding = "utf-16le"
	EncodingUTF16BE    Encoding = "utf-16be"
	EncodingUTF8BOM    Encoding = "utf-8-bom"
	EncodingUTF8       Encoding = "utf-8"
	EncodingSingleByte Encoding = "latin-1"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// Decode detects the encoding of an INF file by its byte order mark and decodes it.
// It never fails: malformed input is decoded lossily with U+FFFD replacements
// and bytes that are not UTF-8 at all are mapped one byte per character.
func Decode(data []byte) (string, Encoding) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[2:], unicode.LittleEndian), EncodingUTF16LE

	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[2:], unicode.BigEndian), EncodingUTF16BE

	case bytes.HasPrefix(data, bomUTF8):
		return strings.ToValidUTF8(string(data[3:]), "\uFFFD"), EncodingUTF8BOM

	case utf8.Valid(data):
		return string(data), EncodingUTF8

	default:
		return decodeSingleByte(data), EncodingSingleByte
	}
}

func decodeUTF16(data []byte, order unicode.Endianness) string {
	decoder := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return decodeSingleByte(data)
	}
	return string(out)
}

func decodeSingleByte(data []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		var sb strings.Builder
		for _, b := range data {
			sb.WriteRune(rune(b))
		}
		return sb.String()
	}
	return string(out)
}
