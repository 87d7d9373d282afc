package service

import (
	"context"

	"lets/internal/cache"
	"lets/internal/models"
	"lets/internal/repository"
)

// TagService serves the tag vocabulary. The full list changes rarely, so it
// is served cache-aside with a short TTL.
type TagService struct {
	tags repository.TagRepository
}

// NewTagService creates a tag service.
func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// ListAll returns every tag name, alphabetically.
func (s *TagService) ListAll(ctx context.Context) ([]string, error) {
	var names []string
	err := cache.Aside(ctx, cache.TagsKey, &names, cache.TagsTTL, func() error {
		tags, err := s.tags.FindAll()
		if err != nil {
			return err
		}
		names = make([]string, 0, len(tags))
		for _, tag := range tags {
			names = append(names, tag.Name)
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
