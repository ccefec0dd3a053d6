// Package engine selects the comparison-engine variant for a validated
// endpoint pair, negotiates compatibility-level upgrades where needed, and
// builds the final comparison handle.
package engine

import "github.com/vvk-labs/modelcmp/pkg/modelcmp"

// SelectVariant maps a source compatibility level to the engine variant that
// understands its schema format. Pure; has no error cases once the level has
// passed the range check.
func SelectVariant(sourceLevel int) modelcmp.Variant {
	if sourceLevel >= modelcmp.StructuredThreshold {
		return modelcmp.VariantStructured
	}
	return modelcmp.VariantDimensional
}
