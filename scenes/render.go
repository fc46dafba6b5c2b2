package scenes

import (
	"context"
	"log/slog"

	"chronolens/apperr"
	"chronolens/imaging"
	"chronolens/models"
	"chronolens/prompts"
	"chronolens/storage"
)

const (
	// renderCost is the quota price of one model call. Cache hits are free.
	renderCost = 1
	// previewWidth is the size of the small copy stored next to each output.
	previewWidth = 640
)

// RenderInput carries one render request after authentication.
type RenderInput struct {
	SceneID      string
	RequesterUID string
	Tier         string
	Era          string
	Variant      string
	Negatives    string
	Style        string
	Force        bool
}

// RenderResult is a render record plus whether it was served from cache.
type RenderResult struct {
	Record models.RenderRecord `json:"record"`
	Cached bool                `json:"cached"`
}

// RenderEra produces or fetches the output image for (scene, era, variant).
//
// The output object lives at a key derived purely from those three values,
// so an existing object short-circuits the whole pipeline: no quota charge,
// no model call. Force skips the check for a reroll. Validation and access
// checks always run before the quota charge.
func (s *Service) RenderEra(ctx context.Context, in RenderInput) (*RenderResult, error) {
	era, err := models.ParseEra(in.Era)
	if err != nil {
		return nil, err
	}
	variant, err := models.ParseVariant(in.Variant)
	if err != nil {
		return nil, err
	}

	scene, err := s.scenes.Get(ctx, in.SceneID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnership(scene, in.RequesterUID); err != nil {
		return nil, err
	}
	if !scene.AllowsEra(era) {
		return nil, apperr.Newf(apperr.InvalidArgument, "era %s is not enabled for this scene", era)
	}
	if scene.Original == nil {
		return nil, apperr.New(apperr.FailedPrecondition, "scene has no original image yet")
	}

	key := storage.OutputKey(scene.ID, string(era), string(variant))
	if !in.Force {
		exists, err := s.objects.Exists(ctx, key)
		if err != nil {
			return nil, err
		}
		if exists {
			if rec := scene.OutputFor(era, variant); rec != nil {
				return &RenderResult{Record: *rec, Cached: true}, nil
			}
			// Object present but no record: a prior attempt wrote the image
			// and then died before updating the scene. Serve the reference.
			return &RenderResult{
				Record: models.RenderRecord{Variant: variant, URI: key},
				Cached: true,
			}, nil
		}
	}

	limit := s.cfg.DailyLimitFor(in.Tier)
	if _, err := s.tracker.Charge(ctx, in.RequesterUID, renderCost, limit); err != nil {
		return nil, err
	}

	original, err := s.objects.Get(ctx, scene.Original.URI)
	if err != nil {
		return nil, err
	}

	prompt := prompts.Build(era, variant, in.Negatives, in.Style)
	slog.Info("rendering scene", "scene", scene.ID, "era", era, "variant", variant, "force", in.Force)

	generated, err := s.model.EditImage(ctx, original, imaging.ContentTypeJPEG, prompt)
	if err != nil {
		return nil, err
	}

	encoded, width, height, err := imaging.ReencodeJPEG(generated.Image)
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationFailed, "model returned an unreadable image", err)
	}
	if err := s.objects.Put(ctx, key, encoded, imaging.ContentTypeJPEG); err != nil {
		return nil, err
	}

	rec := models.RenderRecord{
		Variant:     variant,
		URI:         key,
		Width:       width,
		Height:      height,
		ContentHash: imaging.ContentHash(encoded),
	}

	// Preview failures never fail the render; the record just has no preview.
	preview, err := imaging.ResizeToWidth(encoded, previewWidth)
	if err != nil {
		slog.Warn("preview resize failed", "scene", scene.ID, "era", era, "error", err)
	} else {
		previewKey := storage.PreviewKey(scene.ID, string(era), string(variant))
		if err := s.objects.Put(ctx, previewKey, preview, imaging.ContentTypeJPEG); err != nil {
			slog.Warn("preview upload failed", "scene", scene.ID, "era", era, "error", err)
		} else {
			rec.PreviewURI = previewKey
		}
	}

	if _, err := s.scenes.Mutate(ctx, scene.ID, func(sc *models.Scene) error {
		sc.UpsertOutput(era, rec)
		if sc.Status == models.StatusDraft {
			sc.Status = models.StatusReady
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &RenderResult{Record: rec, Cached: false}, nil
}
