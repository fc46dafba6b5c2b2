// Package prompts assembles the instruction text sent to the image model.
// Assembly is deterministic: the same era and variant always produce the
// same prompt, which keeps cached outputs consistent with fresh ones.
package prompts

import (
	"fmt"
	"strings"

	"chronolens/models"
)

// eraDescriptors give the model the period context for each supported era.
var eraDescriptors = map[models.Era]string{
	models.EraEdo: "the Edo period (1603-1868): wooden machiya townhouses with dark tiled roofs, " +
		"paper lanterns, unpaved streets, people in kimono, no electricity or vehicles",
	models.EraMeiji: "the Meiji era (1868-1912): early Western-style brick buildings beside wooden ones, " +
		"gas street lamps, horse-drawn carriages and rickshaws, telegraph poles",
	models.EraTaisho: "the Taisho era (1912-1926): romantic modern architecture, cafe culture, " +
		"streetcars, a mix of Western suits and kimono, early electric signage",
	models.EraShowa: "the postwar Showa era (1950s-1980s): dense neon signage, small cars, " +
		"concrete buildings, overhead power lines, bustling shopping streets",
	models.EraHeisei: "the Heisei era (1989-2019): convenience stores, vending machines, " +
		"glass-and-steel facades, compact cars, LED signage",
	models.EraFuture: "a plausible future around 2075: autonomous pods, vertical greenery on towers, " +
		"holographic signage, clean quiet streets, subtle climate adaptation",
}

// variantClauses control how far the reinterpretation departs from the
// source photograph.
var variantClauses = map[models.Variant]string{
	models.VariantSubtle: "Keep changes subtle: preserve the exact composition, camera angle and " +
		"building silhouettes, changing only materials, signage, vehicles and clothing.",
	models.VariantBalanced: "Apply a balanced transformation: keep the street layout and camera angle " +
		"recognizable while fully restyling buildings, signage, vehicles and people for the period.",
	models.VariantBold: "Be bold: reimagine the scene freely in the period's style, keeping only the " +
		"rough street geometry and viewpoint of the original.",
}

// negativeConstraints apply to every render regardless of era or variant.
const negativeConstraints = "Do not add text captions, watermarks, borders or split-screen " +
	"comparisons. Do not distort human faces. Keep the output photorealistic."

// Build returns the full instruction for rendering the attached street
// photograph in the given era at the given intensity, with optional caller
// style and avoid-list additions. Inputs are assumed validated; unknown
// values fall back to empty descriptors rather than failing, so callers
// must validate first.
func Build(era models.Era, variant models.Variant, negatives, style string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rework this street photograph so the same location appears as it would in %s. %s",
		eraDescriptors[era], variantClauses[variant])
	if style != "" {
		fmt.Fprintf(&b, " Render in this style: %s.", style)
	}
	b.WriteString(" ")
	b.WriteString(negativeConstraints)
	if negatives != "" {
		fmt.Fprintf(&b, " Also avoid: %s.", negatives)
	}
	return b.String()
}
