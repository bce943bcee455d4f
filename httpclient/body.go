package httpclient

import (
	"fmt"
	"io"

	"github.com/kbukum/oauthrest/errors"
)

// BodyKind tags the shape of a request body.
type BodyKind int

const (
	// BodyNone means no payload.
	BodyNone BodyKind = iota
	// BodyRaw is a string or byte payload sent as-is.
	BodyRaw
	// BodyForm is a field mapping sent as individual form parameters.
	BodyForm
	// BodyMultipart is an ordered sequence of multipart parts.
	BodyMultipart
	// BodyStream is a reader attached without buffering.
	BodyStream
)

// String returns the body kind name.
func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyRaw:
		return "raw"
	case BodyForm:
		return "form"
	case BodyMultipart:
		return "multipart"
	case BodyStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Body is a request payload of exactly one kind. The zero value is BodyNone.
type Body struct {
	kind   BodyKind
	raw    []byte
	text   bool
	form   map[string]any
	parts  []Part
	stream io.Reader
}

// RawBody returns a UTF-8 text payload.
func RawBody(s string) Body {
	return Body{kind: BodyRaw, raw: []byte(s), text: true}
}

// BytesBody returns a binary payload held in memory.
func BytesBody(b []byte) Body {
	return Body{kind: BodyRaw, raw: b}
}

// FormBody returns a form payload; each field becomes its own parameter.
func FormBody(fields map[string]any) Body {
	return Body{kind: BodyForm, form: fields}
}

// MultipartBody returns a multipart payload; parts keep their order.
func MultipartBody(parts ...Part) Body {
	return Body{kind: BodyMultipart, parts: parts}
}

// StreamBody returns a payload read from r while the request is sent.
// If r is an io.Closer the transport closes it.
func StreamBody(r io.Reader) Body {
	return Body{kind: BodyStream, stream: r}
}

// Kind returns the body kind.
func (b Body) Kind() BodyKind { return b.kind }

// IsZero reports whether the body carries no payload.
func (b Body) IsZero() bool { return b.kind == BodyNone }

// Form returns the form fields of a BodyForm, nil otherwise.
func (b Body) Form() map[string]any { return b.form }

// Raw returns the bytes of a BodyRaw, nil otherwise.
func (b Body) Raw() []byte { return b.raw }

// Parts returns the parts of a BodyMultipart, nil otherwise.
func (b Body) Parts() []Part { return b.parts }

// InferBody decides the body kind of a caller-supplied value once:
//
//	nil                                  -> BodyNone
//	Body                                 -> as given
//	string, []byte                       -> BodyRaw
//	map[string]any, map[string]string    -> BodyForm
//	Part, *Part, []Part                  -> BodyMultipart
//	io.Reader (incl. *os.File)           -> BodyStream
//
// Any other value is an INVALID_BODY error.
func InferBody(v any) (Body, error) {
	switch t := v.(type) {
	case nil:
		return Body{}, nil
	case Body:
		return t, nil
	case string:
		return RawBody(t), nil
	case []byte:
		return BytesBody(t), nil
	case map[string]any:
		return FormBody(t), nil
	case map[string]string:
		fields := make(map[string]any, len(t))
		for k, v := range t {
			fields[k] = v
		}
		return FormBody(fields), nil
	case Part:
		return MultipartBody(t), nil
	case *Part:
		if t == nil {
			return Body{}, errors.InvalidBody("nil *Part")
		}
		return MultipartBody(*t), nil
	case []Part:
		return MultipartBody(t...), nil
	case io.Reader:
		return StreamBody(t), nil
	default:
		return Body{}, errors.InvalidBody(fmt.Sprintf("%T", v))
	}
}
