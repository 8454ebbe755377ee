package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFoldMap_Get(t *testing.T) {
	m := NewFoldMap(map[string]float64{
		"Indian":  1,
		"indian":  3,
		"Thai":    2,
		" Greek ": 0.5,
	})

	tests := []struct {
		name   string
		key    string
		want   float64
		wantOK bool
	}{
		{name: "exact match wins over folded", key: "indian", want: 3, wantOK: true},
		{name: "exact match", key: "Indian", want: 1, wantOK: true},
		{name: "case-insensitive fallback", key: "THAI", want: 2, wantOK: true},
		{name: "keys are trimmed", key: "greek", want: 0.5, wantOK: true},
		{name: "lookup key is trimmed", key: "  Thai ", want: 2, wantOK: true},
		{name: "missing", key: "french", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Get(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFoldMap_JSON(t *testing.T) {
	var m FoldMap[bool]
	if err := json.Unmarshal([]byte(`{"Vegan": true, "halal": false}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, ok := m.Get("vegan"); !ok || !v {
		t.Errorf("Get(vegan) = %v, %v; want true, true", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	var zero FoldMap[bool]
	if _, ok := zero.Get("vegan"); ok {
		t.Errorf("zero FoldMap should be empty")
	}
	out, err := json.Marshal(zero)
	if err != nil || string(out) != "{}" {
		t.Errorf("Marshal(zero) = %s, %v", out, err)
	}
}

func TestIndexTag(t *testing.T) {
	tests := map[string]string{
		"Middle Eastern":   "middle_eastern",
		"  tree   nuts ":   "tree_nuts",
		"milk":             "milk",
		"":                 "",
		"Gluten-Free":      "gluten-free",
	}
	for in, want := range tests {
		if got := IndexTag(in); got != want {
			t.Errorf("IndexTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{}},
		{in: "indian", want: []string{"indian"}},
		{in: " indian , thai,,indian ", want: []string{"indian", "thai"}},
		{in: " , ", want: []string{}},
	}
	for _, tt := range tests {
		got := SplitTags(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTags(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
