package scenes

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"chronolens/apperr"
	"chronolens/imaging"
	"chronolens/models"
	"chronolens/storage"
	"chronolens/utils"
)

// thumbWidths is the fixed set of cover thumbnail sizes written at publish
// time. The writes target disjoint keys and run concurrently.
var thumbWidths = []int{320, 640, 1280}

type PublishResult struct {
	PublicID string `json:"public_id"`
}

// Publish makes the scene publicly visible: it picks a cover image, writes
// the cover thumbnail set, creates the gallery listing and flips the scene
// to published. Publishing an already published scene returns the existing
// public id instead of minting a second listing.
func (s *Service) Publish(ctx context.Context, sceneID, requesterUID string) (*PublishResult, error) {
	scene, err := s.scenes.Get(ctx, sceneID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnership(scene, requesterUID); err != nil {
		return nil, err
	}
	if scene.IsPublic() {
		return &PublishResult{PublicID: scene.Public.PublicID}, nil
	}

	coverURI, defaultEra, err := chooseCover(scene)
	if err != nil {
		return nil, err
	}

	if _, err := s.scenes.Mutate(ctx, sceneID, func(sc *models.Scene) error {
		sc.Status = models.StatusPublishing
		return nil
	}); err != nil {
		return nil, err
	}

	cover, err := s.objects.Get(ctx, coverURI)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, width := range thumbWidths {
		g.Go(func() error {
			thumb, err := imaging.ResizeToWidth(cover, width)
			if err != nil {
				return err
			}
			return s.objects.Put(gctx, storage.CoverThumbKey(sceneID, width), thumb, imaging.ContentTypeJPEG)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	publicID := utils.PublicID(sceneID)
	now := time.Now()
	listing := &models.PublicListing{
		PublicID:   publicID,
		SceneID:    sceneID,
		CoverURI:   coverURI,
		DefaultEra: defaultEra,
		CreatedAt:  now,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}

	if _, err := s.scenes.Mutate(ctx, sceneID, func(sc *models.Scene) error {
		sc.Status = models.StatusPublished
		sc.Public = &models.PublicInfo{IsPublic: true, PublicID: publicID, CreatedAt: now}
		return nil
	}); err != nil {
		return nil, err
	}

	slog.Info("scene published", "scene", sceneID, "public_id", publicID)
	return &PublishResult{PublicID: publicID}, nil
}

// chooseCover scans the scene's era order and takes the first era holding
// any output, preferring its balanced variant. A scene with no outputs
// falls back to the original photograph.
func chooseCover(scene *models.Scene) (string, models.Era, error) {
	for _, era := range scene.EraOrder() {
		records := scene.Outputs[era]
		if len(records) == 0 {
			continue
		}
		if rec := scene.OutputFor(era, models.VariantBalanced); rec != nil {
			return rec.URI, era, nil
		}
		return records[0].URI, era, nil
	}
	if scene.Original != nil {
		return scene.Original.URI, "", nil
	}
	return "", "", apperr.New(apperr.FailedPrecondition, "scene has nothing to publish")
}

// Listing is a public gallery entry resolved for a viewer, cover included.
type Listing struct {
	PublicID   string     `json:"public_id"`
	SceneID    string     `json:"scene_id"`
	DefaultEra models.Era `json:"default_era,omitempty"`
	CoverURL   string     `json:"cover_url"`
	ViewCount  int64      `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GetListing finds a published entry by public id and signs its cover URL.
func (s *Service) GetListing(ctx context.Context, publicID string) (*Listing, error) {
	listing, err := s.listings.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.objects.PresignGet(ctx, listing.CoverURI, s.cfg.Server.SignedURLTTL, "")
	if err != nil {
		return nil, err
	}
	return &Listing{
		PublicID:   listing.PublicID,
		SceneID:    listing.SceneID,
		DefaultEra: listing.DefaultEra,
		CoverURL:   coverURL,
		ViewCount:  listing.ViewCount,
		CreatedAt:  listing.CreatedAt,
	}, nil
}
