package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lets/internal/models"
)

// TagRepository handles the tag vocabulary.
type TagRepository interface {
	FindAll() ([]models.Tag, error)
	FindByNames(names []string) ([]models.Tag, error)
	FindOrCreateByNames(names []string) ([]models.Tag, error)
	WithTx(tx *gorm.DB) TagRepository
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	if tx == nil {
		return r
	}
	return &tagRepository{db: tx}
}

func (r *tagRepository) FindAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) FindByNames(names []string) ([]models.Tag, error) {
	var tags []models.Tag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.db.Where("name IN ?", names).Find(&tags).Error
	return tags, err
}

// FindOrCreateByNames upserts the given names and returns the full rows.
// Unknown names are created so the vocabulary grows with usage.
func (r *tagRepository) FindOrCreateByNames(names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	rows := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, models.Tag{Name: name})
	}
	if len(rows) == 0 {
		return []models.Tag{}, nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, err
	}

	// Re-read so rows that hit the conflict path carry their IDs.
	names = make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return r.FindByNames(names)
}
