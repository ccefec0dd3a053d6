package engine

import (
	"testing"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

func TestSelectVariant_Threshold(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  modelcmp.Variant
	}{
		{name: "lowest supported level", level: 1100, want: modelcmp.VariantDimensional},
		{name: "just below threshold", level: 1199, want: modelcmp.VariantDimensional},
		{name: "exactly at threshold", level: 1200, want: modelcmp.VariantStructured},
		{name: "modern tabular level", level: 1400, want: modelcmp.VariantStructured},
		{name: "highest supported level", level: 1499, want: modelcmp.VariantStructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectVariant(tt.level); got != tt.want {
				t.Errorf("SelectVariant(%d) = %s, want %s", tt.level, got, tt.want)
			}
		})
	}
}

func TestNeeded(t *testing.T) {
	tests := []struct {
		name    string
		variant modelcmp.Variant
		source  int
		target  int
		want    bool
	}{
		{name: "structured with lower target", variant: modelcmp.VariantStructured, source: 1400, target: 1200, want: true},
		{name: "structured with equal levels", variant: modelcmp.VariantStructured, source: 1400, target: 1400, want: false},
		{name: "structured with higher target", variant: modelcmp.VariantStructured, source: 1200, target: 1400, want: false},
		{name: "dimensional never negotiates", variant: modelcmp.VariantDimensional, source: 1103, target: 1100, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &modelcmp.ComparisonConfig{
				Source: modelcmp.EndpointDescriptor{CompatibilityLevel: tt.source},
				Target: modelcmp.EndpointDescriptor{CompatibilityLevel: tt.target},
			}
			if got := Needed(tt.variant, cfg); got != tt.want {
				t.Errorf("Needed(%s, %d vs %d) = %t, want %t", tt.variant, tt.source, tt.target, got, tt.want)
			}
		})
	}
}
