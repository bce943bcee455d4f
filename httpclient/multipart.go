package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/oauthrest/errors"
)

const defaultFileContentType = "application/octet-stream"

// Part is one multipart section. Exactly one content source is used, in
// this order: Reader, Data, Path, Value.
type Part struct {
	// Name is the form field name.
	Name string
	// FileName marks the part as a file upload. Defaults to the base of Path.
	FileName string
	// ContentType is the part MIME type. File parts default to application/octet-stream.
	ContentType string
	// Charset is appended to ContentType when set.
	Charset string

	// Value is a plain text value.
	Value string
	// Data is an in-memory file body.
	Data []byte
	// Reader streams the part body.
	Reader io.Reader
	// Path is a file on disk opened at build time.
	Path string
}

// StringPart returns a plain field part.
func StringPart(name, value string) Part {
	return Part{Name: name, Value: value}
}

// FilePart returns a part reading the file at path.
func FilePart(name, path, contentType string) Part {
	return Part{Name: name, Path: path, ContentType: contentType}
}

// BytesPart returns a file part held in memory.
func BytesPart(name, fileName string, data []byte, contentType string) Part {
	return Part{Name: name, FileName: fileName, Data: data, ContentType: contentType}
}

func (p Part) isFile() bool {
	return p.FileName != "" || p.Path != "" || p.Data != nil || p.Reader != nil
}

func (p Part) header() textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	disposition := `form-data; name="` + escapeQuotes(p.Name) + `"`

	fileName := p.FileName
	if fileName == "" && p.Path != "" {
		fileName = filepath.Base(p.Path)
	}
	if fileName != "" {
		disposition += `; filename="` + escapeQuotes(fileName) + `"`
	}
	h.Set("Content-Disposition", disposition)

	ct := p.ContentType
	if ct == "" && p.isFile() {
		ct = defaultFileContentType
	}
	if ct != "" && p.Charset != "" {
		ct += "; charset=" + p.Charset
	}
	if ct != "" {
		h.Set("Content-Type", ct)
	}
	return h
}

// encodeParts writes parts in order and returns the payload and its
// Content-Type, boundary included.
func encodeParts(parts []Part) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, p := range parts {
		if strings.TrimSpace(p.Name) == "" {
			return nil, "", errors.InvalidInput("multipart", fmt.Sprintf("part %d has no name", i))
		}
		dst, err := w.CreatePart(p.header())
		if err != nil {
			return nil, "", err
		}
		if err := writePart(dst, p); err != nil {
			return nil, "", errors.InvalidInput("multipart", fmt.Sprintf("part %q: %v", p.Name, err)).WithCause(err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writePart(dst io.Writer, p Part) error {
	switch {
	case p.Reader != nil:
		_, err := io.Copy(dst, p.Reader)
		return err
	case p.Data != nil:
		_, err := dst.Write(p.Data)
		return err
	case p.Path != "":
		f, err := os.Open(p.Path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(dst, f)
		return err
	default:
		_, err := io.WriteString(dst, p.Value)
		return err
	}
}

// escapeQuotes replaces special characters in header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
