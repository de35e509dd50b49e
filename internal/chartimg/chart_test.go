package chartimg

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/lox/habitatshift/internal/dashboard"
	"github.com/lox/habitatshift/internal/synth"
)

func TestRenderProducesPNG(t *testing.T) {
	table := synth.NewSeeded(synth.DefaultSeed).Generate()
	chart := dashboard.BuildChart(table, 2013)

	data, err := Render(chart)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != Width {
		t.Errorf("width = %d, want %d", got, Width)
	}
	if got := img.Bounds().Dy(); got != Height {
		t.Errorf("height = %d, want %d", got, Height)
	}
}

func TestRenderEmptyChart(t *testing.T) {
	data, err := Render(dashboard.BuildChart(nil, 2024))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
	}{
		{"#ef553b", 0xef, 0x55, 0x3b},
		{"#636efa", 0x63, 0x6e, 0xfa},
		{"red", 0, 0, 0},
		{"#zzzzzz", 0, 0, 0},
	}
	for _, tt := range tests {
		c := parseHex(tt.in)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != 255 {
			t.Errorf("parseHex(%q) = %v", tt.in, c)
		}
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	k := Key{Seed: 42, Year: 2013}
	if _, ok := c.Get(k); ok {
		t.Fatal("expected empty cache")
	}

	c.Set(k, []byte("png"))
	if data, ok := c.Get(k); !ok || string(data) != "png" {
		t.Fatalf("Get = %q, %v", data, ok)
	}
	if _, ok := c.Get(Key{Seed: 42, Year: 2014}); ok {
		t.Error("unexpected hit for another year")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(k); ok {
		t.Error("expected entry to expire")
	}
}
