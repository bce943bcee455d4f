package params

import (
	"testing"
	"time"
)

func TestCanonicalKey(t *testing.T) {
	tests := map[string]string{
		"screen-name":        "screen_name",
		"include-my-retweet": "include_my_retweet",
		"id":                 "id",
		"already_wire":       "already_wire",
	}
	for in, want := range tests {
		if got := CanonicalKey(in); got != want {
			t.Errorf("CanonicalKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"float", 1.5, "1.5"},
		{"bytes", []byte("raw"), "raw"},
		{"string slice keeps order", []string{"b", "a", "c"}, "b,a,c"},
		{"int slice", []int{3, 1, 2}, "3,1,2"},
		{"any slice", []any{"x", 2, false}, "x,2,false"},
		{"array", [2]string{"p", "q"}, "p,q"},
		{"empty slice", []string{}, ""},
		{"duration", 2 * time.Second, "2s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	in := map[string]any{
		"screen-name": []string{"a", "b"},
		"count":       20,
		"trim-user":   true,
	}
	got := Transform(in)

	want := map[string]string{
		"screen_name": "a,b",
		"count":       "20",
		"trim_user":   "true",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	for k := range got {
		for _, r := range k {
			if string(r) == CallerSeparator {
				t.Errorf("key %q still contains a hyphen", k)
			}
		}
	}
	if _, ok := in["screen_name"]; ok {
		t.Error("input map must not be modified")
	}
}

func TestTransform_Empty(t *testing.T) {
	if got := Transform(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestMerge_ParamsWin(t *testing.T) {
	base := map[string]any{"id": "1", "cursor": -1}
	got := Merge(base, map[string]string{"id": "2"})

	if got["id"] != "2" {
		t.Errorf("expected params to win, got %v", got["id"])
	}
	if got["cursor"] != -1 {
		t.Errorf("expected base key kept, got %v", got["cursor"])
	}
	if base["id"] != "1" {
		t.Error("base map must not be modified")
	}
}
