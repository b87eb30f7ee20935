package features

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRanges_CoverEveryFeature(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != 8 {
		t.Fatalf("expected 8 features, got %d", len(names))
	}

	for _, name := range names {
		r, ok := RangeOf(name)
		if !ok {
			t.Errorf("no range for feature %s", name)
			continue
		}
		if r.Min >= r.Max {
			t.Errorf("feature %s: min %g not below max %g", name, r.Min, r.Max)
		}
		if r.Step <= 0 {
			t.Errorf("feature %s: step %g must be positive", name, r.Step)
		}
	}

	if _, ok := RangeOf("residual_sugar"); ok {
		t.Error("RangeOf should not know features outside the closed set")
	}
}

func TestDefaults_WithinBounds(t *testing.T) {
	t.Parallel()

	set := Defaults()
	for _, name := range Names() {
		v, ok := set.Value(name)
		if !ok {
			t.Fatalf("Value(%s) not found", name)
		}
		if err := Validate(name, v); err != nil {
			t.Errorf("default for %s out of bounds: %v", name, err)
		}
	}
	if set.TypeWhite != TypeWhiteValue {
		t.Errorf("expected default type white, got %d", set.TypeWhite)
	}
}

func TestSet_ApplyRoundTrip(t *testing.T) {
	t.Parallel()

	var set Set
	for _, name := range Names() {
		if name == TypeWhite {
			continue
		}
		r, _ := RangeOf(name)
		mid := (r.Min + r.Max) / 2

		if !set.Apply(name, mid) {
			t.Errorf("Apply(%s) refused a known feature", name)
		}
		got, _ := set.Value(name)
		if got != mid {
			t.Errorf("feature %s: wrote %g, read %g", name, mid, got)
		}
	}

	if set.Apply(TypeWhite, 1) {
		t.Error("Apply must not set the type selector")
	}
	if set.Apply("residual_sugar", 1) {
		t.Error("Apply must refuse unknown features")
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		feature string
		raw     string
		want    float64
		wantErr bool
	}{
		{"valid mid-range", Alcohol, "10.5", 10.5, false},
		{"valid at min", Alcohol, "8.0", 8.0, false},
		{"valid at max", Alcohol, "14.9", 14.9, false},
		{"below min", Alcohol, "7.9", 0, true},
		{"above max", Alcohol, "15.0", 0, true},
		{"not a number", Alcohol, "dry", 0, true},
		{"empty", Alcohol, "", 0, true},
		{"nan", Alcohol, "NaN", 0, true},
		{"positive inf", Alcohol, "+Inf", 0, true},
		{"unknown feature", "residual_sugar", "1.0", 0, true},
		{"density precision", Density, "0.9951", 0.9951, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseValue(tc.feature, tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %g, got %g", tc.want, got)
			}
		})
	}
}

func TestValidate_NonFinite(t *testing.T) {
	t.Parallel()

	if err := Validate(Density, math.NaN()); err == nil {
		t.Error("NaN must not validate")
	}
	if err := Validate(Density, math.Inf(-1)); err == nil {
		t.Error("-Inf must not validate")
	}
}

func TestSet_WireShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Defaults())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var body map[string]float64
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(body) != 8 {
		t.Fatalf("expected exactly 8 wire fields, got %d: %v", len(body), body)
	}
	for _, name := range Names() {
		if _, ok := body[name]; !ok {
			t.Errorf("wire body missing field %s", name)
		}
	}
}
