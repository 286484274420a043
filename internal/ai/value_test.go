package ai

import (
	"math"
	"testing"
)

func TestValue(t *testing.T) {
	t.Parallel()

	var unset Value[string]
	if unset.IsSet() {
		t.Fatalf("zero value must be unset")
	}
	if got := unset.Or("fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	set := Some("alice")
	if v, ok := set.Get(); !ok || v != "alice" {
		t.Fatalf("expected alice, got %q (%v)", v, ok)
	}
}

func TestPreferPositive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		model     Value[float64]
		want      float64
		wantModel bool
	}{
		{name: "unset", model: None[float64](), want: 3, wantModel: false},
		{name: "positive wins", model: Some(7.5), want: 7.5, wantModel: true},
		{name: "zero loses", model: Some(0.0), want: 3, wantModel: false},
		{name: "negative loses", model: Some(-2.0), want: 3, wantModel: false},
		{name: "nan loses", model: Some(math.NaN()), want: 3, wantModel: false},
		{name: "inf loses", model: Some(math.Inf(1)), want: 3, wantModel: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, usedModel := PreferPositive(tt.model, 3)
			if got != tt.want || usedModel != tt.wantModel {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tt.want, tt.wantModel, got, usedModel)
			}
		})
	}
}

func TestFirstString(t *testing.T) {
	t.Parallel()

	got := FirstString(None[string](), Some("   "), NonBlank(" MSc Physics "), Some("ignored"))
	if v, ok := got.Get(); !ok || v != "MSc Physics" {
		t.Fatalf("expected MSc Physics, got %q (%v)", v, ok)
	}

	if FirstString().IsSet() {
		t.Fatalf("expected unset value for no inputs")
	}
}
