package types_test

import (
	"testing"

	"github.com/robertgumeny/rescomp/internal/types"
)

func TestResourceType_IsKnown(t *testing.T) {
	tests := []struct {
		tag  types.ResourceType
		want bool
	}{
		{types.ResourceTypeShader, true},
		{types.ResourceTypeNone, true},
		{"Texture", false},
		{"shader", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.tag.IsKnown(); got != tt.want {
			t.Errorf("ResourceType(%q).IsKnown() = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestResource_LenMatchesPayload(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x00}, {0x00, 0xFF, 0x10}, make([]byte, 4096)} {
		r := types.Resource{Name: "x", Type: types.ResourceTypeShader, Data: data}
		if r.Len() != len(data) {
			t.Errorf("Len() = %d, want %d", r.Len(), len(data))
		}
	}
}

func TestResource_Symbol(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"basic", "BASIC"},
		{"glow_frag", "GLOW_FRAG"},
		{"AlreadyMixed", "ALREADYMIXED"},
		{"raymarch2", "RAYMARCH2"},
	}
	for _, tt := range tests {
		r := types.Resource{Name: tt.name}
		if got := r.Symbol(); got != tt.want {
			t.Errorf("Symbol(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestManifest_Find(t *testing.T) {
	m := &types.Manifest{Resources: []types.ManifestEntry{
		{Name: "basic", Length: 3},
		{Name: "glow", Length: 7},
	}}

	e := m.Find("glow")
	if e == nil {
		t.Fatal("Find(glow) returned nil")
	}
	if e.Length != 7 {
		t.Errorf("Length = %d, want 7", e.Length)
	}

	// The returned pointer aliases the slice element.
	e.Length = 9
	if m.Resources[1].Length != 9 {
		t.Error("Find should return a pointer into the manifest")
	}

	if m.Find("missing") != nil {
		t.Error("Find(missing) should return nil")
	}
}
