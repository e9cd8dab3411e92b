// Package format identifies the kind of file handed to the IL reader.
//
// Extraction pipelines often leave the source PDF, an office archive and the
// IL markup side by side, and a wrong file name produces an unhelpful XML
// syntax error several bytes in. Decode checks the leading bytes first so the
// caller can report what the file actually is. Gzip-compressed markup is
// decompressed transparently.
package format

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
)

// Format represents a detected input format.
type Format int

const (
	// Unknown indicates unrecognized content.
	Unknown Format = iota
	// IL indicates markup whose root element is document.
	IL
	// XML indicates well-formed looking markup with a different root.
	XML
	// HTML indicates an HTML or XHTML document.
	HTML
	// PDF indicates a PDF file.
	PDF
	// ZIP indicates a ZIP archive such as DOCX, XLSX or ODT.
	ZIP
	// Gzip indicates gzip-compressed content.
	Gzip
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case IL:
		return "IL"
	case XML:
		return "XML"
	case HTML:
		return "HTML"
	case PDF:
		return "PDF"
	case ZIP:
		return "ZIP"
	case Gzip:
		return "gzip"
	default:
		return "Unknown"
	}
}

// maxDecompressed bounds the size of decompressed markup
const maxDecompressed = 1 << 30

// DetectFromMagic checks the leading bytes to determine the format.
// Returns Unknown if the format cannot be determined from them.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ZIP
	case bytes.HasPrefix(data, []byte{0x1f, 0x8b}):
		return Gzip
	}
	return detectMarkup(data)
}

// Decode returns the IL markup held in data, decompressing gzip input. It
// fails when the content is recognizably something else. Unknown content is
// passed through so the XML reader can report the exact syntax error.
func Decode(data []byte) ([]byte, error) {
	f := DetectFromMagic(data)
	if f == Gzip {
		var err error
		data, err = gunzip(data)
		if err != nil {
			return nil, err
		}
		f = DetectFromMagic(data)
	}

	switch f {
	case IL, Unknown:
		return data, nil
	case XML:
		return nil, fmt.Errorf("input is XML but its root element is not document")
	default:
		return nil, fmt.Errorf("input is a %s file, not an IL document", f)
	}
}

// gunzip decompresses gzip data.
func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(reader, maxDecompressed+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if n > maxDecompressed {
		return nil, fmt.Errorf("decompressed input exceeds %d bytes", maxDecompressed)
	}
	return buf.Bytes(), nil
}

// detectMarkup looks past a byte order mark, the XML declaration, comments
// and a doctype for the first start tag.
func detectMarkup(data []byte) Format {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	for {
		data = bytes.TrimLeft(data, " \t\r\n")
		switch {
		case bytes.HasPrefix(data, []byte("<?")):
			end := bytes.Index(data, []byte("?>"))
			if end < 0 {
				return Unknown
			}
			data = data[end+2:]
		case bytes.HasPrefix(data, []byte("<!--")):
			end := bytes.Index(data, []byte("-->"))
			if end < 0 {
				return Unknown
			}
			data = data[end+3:]
		case bytes.HasPrefix(data, []byte("<!")):
			// Doctype. Internal subsets are not expected here.
			end := bytes.IndexByte(data, '>')
			if end < 0 {
				return Unknown
			}
			if strings.HasPrefix(strings.ToUpper(string(data[:end])), "<!DOCTYPE HTML") {
				return HTML
			}
			data = data[end+1:]
		case bytes.HasPrefix(data, []byte("<")):
			return classifyRoot(data[1:])
		default:
			return Unknown
		}
	}
}

// classifyRoot inspects the local name of the root start tag, the part
// after any namespace prefix.
func classifyRoot(data []byte) Format {
	end := bytes.IndexAny(data, " \t\r\n/>")
	if end <= 0 {
		return Unknown
	}
	name := string(data[:end])
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case name == "document":
		return IL
	case strings.EqualFold(name, "html"):
		return HTML
	default:
		return XML
	}
}
