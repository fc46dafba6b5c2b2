package models

import "chronolens/apperr"

// Era identifies a target styling period for a render. The set has changed
// between releases; only the labels below are accepted for new renders.
type Era string

const (
	EraEdo    Era = "edo"
	EraMeiji  Era = "meiji"
	EraTaisho Era = "taisho"
	EraShowa  Era = "showa"
	EraHeisei Era = "heisei"
	EraFuture Era = "future"
)

// DefaultEras is the canonical ordering. Publish walks it front to back when
// choosing a cover.
var DefaultEras = []Era{EraEdo, EraMeiji, EraTaisho, EraShowa, EraHeisei, EraFuture}

// Variant is the intensity of the stylistic transformation.
type Variant string

const (
	VariantSubtle   Variant = "subtle"
	VariantBalanced Variant = "balanced"
	VariantBold     Variant = "bold"
)

var Variants = []Variant{VariantSubtle, VariantBalanced, VariantBold}

func ValidEra(e Era) bool {
	for _, known := range DefaultEras {
		if e == known {
			return true
		}
	}
	return false
}

func ValidVariant(v Variant) bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// ParseEra validates a raw label from a request.
func ParseEra(s string) (Era, error) {
	e := Era(s)
	if !ValidEra(e) {
		return "", apperr.Newf(apperr.InvalidArgument, "unknown era %q", s)
	}
	return e, nil
}

// ParseVariant validates a raw label from a request.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !ValidVariant(v) {
		return "", apperr.Newf(apperr.InvalidArgument, "unknown variant %q", s)
	}
	return v, nil
}
