package models

import "testing"

func TestLookupSpecies(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"honeybee", "honeybee"},
		{"HORNET", "hornet"},
		{" hornet ", "hornet"},
		{"등검은말벌 (외래 침입종)", "hornet"},
		{"꿀벌 (기온 민감종)", "honeybee"},
		{"", "honeybee"},
		{"wasp", "honeybee"},
	}
	for _, tt := range tests {
		if got := LookupSpecies(tt.in).ID; got != tt.want {
			t.Errorf("LookupSpecies(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpeciesMarkerColors(t *testing.T) {
	if c := LookupSpecies("hornet").MarkerColor; c != "red" {
		t.Errorf("hornet marker color = %q, want red", c)
	}
	if c := DefaultSpecies().MarkerColor; c != "blue" {
		t.Errorf("default marker color = %q, want blue", c)
	}
}

func TestTableLenNil(t *testing.T) {
	var table *Table
	if table.Len() != 0 {
		t.Error("expected nil table to have zero rows")
	}
}
