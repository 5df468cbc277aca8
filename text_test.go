package tagsphere

import "testing"

func TestLoadTTFFontInvalidData(t *testing.T) {
	if _, err := LoadTTFFont([]byte("not a font")); err == nil {
		t.Error("expected error for invalid TTF data")
	}
}

func TestDefaultFontMeasure(t *testing.T) {
	f, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}
	again, _ := DefaultFont()
	if again != f {
		t.Error("DefaultFont not shared")
	}

	w12, h12 := f.Measure("ebitengine", 12)
	w20, h20 := f.Measure("ebitengine", 20)
	if w12 <= 0 || h12 <= 0 {
		t.Fatalf("Measure at 12 = (%g, %g)", w12, h12)
	}
	if w20 <= w12 || h20 <= h12 {
		t.Errorf("larger size did not measure larger: 12 → (%g, %g), 20 → (%g, %g)", w12, h12, w20, h20)
	}
	if w, h := f.Measure("ebitengine", 12); w != w12 || h != h12 {
		t.Error("Measure is not deterministic")
	}
	if wShort, _ := f.Measure("go", 12); wShort >= w12 {
		t.Errorf("short label width %g not below %g", wShort, w12)
	}
	if f.LineHeight(20) < h20 {
		t.Errorf("LineHeight(20) = %g, below the single line height %g", f.LineHeight(20), h20)
	}
}
