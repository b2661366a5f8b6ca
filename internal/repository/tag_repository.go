package repository

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/onyx/internal/model"
)

type TagRepository interface {
	ListByStory(ctx context.Context, storyID string) ([]model.Tag, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) ListByStory(ctx context.Context, storyID string) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN story_tags st ON st.tag_id = tags.id").
		Where("st.story_id = ?", storyID).
		Order("tags.name").
		Find(&tags).Error
	return tags, err
}

// internTags 按名称取或建标签，并发下同名不会产生重复行。
// 先 INSERT ... ON CONFLICT DO NOTHING 再按名称回读，
// 可在事务内调用。超过列宽的名称直接跳过，不让单个标签拖垮整条快拍
func internTags(db *gorm.DB, names []string) ([]model.Tag, error) {
	names = dedupe(names)
	if len(names) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	rows := make([]model.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, model.Tag{ID: uuid.New().String(), Name: n, CreatedAt: now})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var tags []model.Tag
	if err := db.Where("name IN ?", names).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || utf8.RuneCountInString(n) > model.MaxTagNameLength {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
