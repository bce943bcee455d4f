package httpclient

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kbukum/oauthrest/errors"
)

func TestInferBody(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want BodyKind
	}{
		{"nil", nil, BodyNone},
		{"string", "text", BodyRaw},
		{"bytes", []byte("b"), BodyRaw},
		{"form any", map[string]any{"a": 1}, BodyForm},
		{"form string", map[string]string{"a": "1"}, BodyForm},
		{"part", StringPart("a", "1"), BodyMultipart},
		{"part pointer", &Part{Name: "a"}, BodyMultipart},
		{"parts", []Part{StringPart("a", "1")}, BodyMultipart},
		{"reader", strings.NewReader("r"), BodyStream},
		{"buffer", &bytes.Buffer{}, BodyStream},
		{"explicit", FormBody(nil), BodyForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := InferBody(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Kind() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, b.Kind())
			}
		})
	}
}

func TestInferBody_Unsupported(t *testing.T) {
	for _, v := range []any{42, struct{}{}, (*Part)(nil)} {
		if _, err := InferBody(v); !errors.IsCode(err, errors.ErrCodeInvalidBody) {
			t.Errorf("InferBody(%T): expected INVALID_BODY, got %v", v, err)
		}
	}
}

func TestInferBody_StringMapCopied(t *testing.T) {
	src := map[string]string{"a": "1"}
	b, _ := InferBody(src)
	src["a"] = "2"
	if b.Form()["a"] != "1" {
		t.Errorf("form body should not alias the caller's map")
	}
}
