package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertOutputReplacesSameVariant(t *testing.T) {
	scene := &Scene{ID: "s1"}

	scene.UpsertOutput(EraShowa, RenderRecord{Variant: VariantBalanced, ContentHash: "old"})
	scene.UpsertOutput(EraShowa, RenderRecord{Variant: VariantBold, ContentHash: "bold"})
	scene.UpsertOutput(EraShowa, RenderRecord{Variant: VariantBalanced, ContentHash: "new"})

	records := scene.Outputs[EraShowa]
	require.Len(t, records, 2)

	balanced := scene.OutputFor(EraShowa, VariantBalanced)
	require.NotNil(t, balanced)
	assert.Equal(t, "new", balanced.ContentHash)

	seen := map[Variant]int{}
	for _, rec := range records {
		seen[rec.Variant]++
	}
	for variant, count := range seen {
		assert.Equal(t, 1, count, "variant %s appears more than once", variant)
	}
}

func TestUpsertOutputKeepsErasIndependent(t *testing.T) {
	scene := &Scene{ID: "s1"}
	scene.UpsertOutput(EraEdo, RenderRecord{Variant: VariantBalanced, ContentHash: "edo"})
	scene.UpsertOutput(EraMeiji, RenderRecord{Variant: VariantBalanced, ContentHash: "meiji"})

	assert.Len(t, scene.Outputs[EraEdo], 1)
	assert.Len(t, scene.Outputs[EraMeiji], 1)
	assert.Equal(t, "edo", scene.OutputFor(EraEdo, VariantBalanced).ContentHash)
}

func TestEraOrderDefaultsWhenUnset(t *testing.T) {
	scene := &Scene{ID: "s1"}
	assert.Equal(t, DefaultEras, scene.EraOrder())
	assert.True(t, scene.AllowsEra(EraFuture))

	scene.Eras = []Era{EraEdo}
	assert.Equal(t, []Era{EraEdo}, scene.EraOrder())
	assert.False(t, scene.AllowsEra(EraFuture))
}

func TestSceneValidate(t *testing.T) {
	valid := Scene{ID: "s1", OwnerUID: "alice", Status: StatusDraft}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		scene Scene
	}{
		{"missing id", Scene{OwnerUID: "alice", Status: StatusDraft}},
		{"missing owner", Scene{ID: "s1", Status: StatusDraft}},
		{"unknown status", Scene{ID: "s1", OwnerUID: "alice", Status: "archived"}},
		{"unknown era", Scene{ID: "s1", OwnerUID: "alice", Status: StatusDraft, Eras: []Era{"atlantis"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.scene.Validate())
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	scene := &Scene{
		ID:       "s1",
		OwnerUID: "alice",
		Status:   StatusReady,
		Original: &ImageRef{URI: "scenes/s1/original.jpg"},
		Eras:     []Era{EraEdo, EraShowa},
		Outputs: map[Era][]RenderRecord{
			EraEdo: {{Variant: VariantSubtle, ContentHash: "h1"}},
		},
	}

	clone := scene.Clone()
	clone.Original.URI = "changed"
	clone.Eras[0] = EraFuture
	clone.UpsertOutput(EraEdo, RenderRecord{Variant: VariantSubtle, ContentHash: "h2"})

	assert.Equal(t, "scenes/s1/original.jpg", scene.Original.URI)
	assert.Equal(t, EraEdo, scene.Eras[0])
	assert.Equal(t, "h1", scene.Outputs[EraEdo][0].ContentHash)
}

func TestParseEraAndVariant(t *testing.T) {
	era, err := ParseEra("showa")
	require.NoError(t, err)
	assert.Equal(t, EraShowa, era)

	_, err = ParseEra("SHOWA")
	assert.Error(t, err)
	_, err = ParseEra("")
	assert.Error(t, err)

	variant, err := ParseVariant("bold")
	require.NoError(t, err)
	assert.Equal(t, VariantBold, variant)

	_, err = ParseVariant("maximal")
	assert.Error(t, err)
}
