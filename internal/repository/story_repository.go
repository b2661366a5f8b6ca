package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/onyx/internal/model"
)

// relevanceExpr 缺失的兴趣行按 0 计（LEFT JOIN），不会把候选排除掉
const relevanceExpr = "COALESCE(SUM(ui.score), 0)"

// LikeResult 点赞/取消点赞后的计数状态
type LikeResult struct {
	Changed     bool  `json:"changed"`
	LikesCount  int64 `json:"likes_count"`
	IsPermanent bool  `json:"is_permanent"`
}

type StoryRepository interface {
	// Create 在一个事务内写入快拍、标签与关联
	Create(ctx context.Context, s *model.Story, labels []string) error
	GetByID(ctx context.Context, id string) (*model.Story, error)
	ListByOwner(ctx context.Context, userID string, now time.Time) ([]*model.Story, error)
	Delete(ctx context.Context, id, userID string) error

	// FeedRecent 冷启动：未过期或永久、非本人、未看过，按创建时间倒序
	FeedRecent(ctx context.Context, userID string, now time.Time, limit int) ([]*model.RankedStory, error)
	// FeedRanked 个性化：同样的候选集合，按标签兴趣分之和排序
	FeedRanked(ctx context.Context, userID string, now time.Time, limit int) ([]*model.RankedStory, error)

	// MarkViewed 返回是否新建了曝光记录；只有新建时浏览数 +1
	MarkViewed(ctx context.Context, userID, storyID string, now time.Time) (bool, error)

	Like(ctx context.Context, userID, storyID string, threshold int64, now time.Time) (*LikeResult, error)
	Unlike(ctx context.Context, userID, storyID string) (*LikeResult, error)
	IsLiked(ctx context.Context, userID, storyID string) (bool, error)
}

type storyRepository struct{ db *gorm.DB }

func NewStoryRepository(db *gorm.DB) StoryRepository { return &storyRepository{db: db} }

func (r *storyRepository) Create(ctx context.Context, s *model.Story, labels []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			return err
		}
		tags, err := internTags(tx, labels)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			s.Tags = nil
			s.FillLabels()
			return nil
		}
		links := make([]model.StoryTag, 0, len(tags))
		for _, t := range tags {
			links = append(links, model.StoryTag{StoryID: s.ID, TagID: t.ID})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
			return err
		}
		s.Tags = tags
		s.FillLabels()
		return nil
	})
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	var s model.Story
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.FillLabels()
	return &s, nil
}

func (r *storyRepository) ListByOwner(ctx context.Context, userID string, now time.Time) ([]*model.Story, error) {
	var res []*model.Story
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Where("is_permanent = ? OR expires_at IS NULL OR expires_at >= ?", true, now).
		Order("created_at DESC").
		Find(&res).Error
	if err != nil {
		return nil, err
	}
	for _, s := range res {
		s.FillLabels()
	}
	return res, nil
}

func (r *storyRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Story{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// 标签本身不删除，只清理关联
		return tx.Where("story_id = ?", id).Delete(&model.StoryTag{}).Error
	})
}

type feedRow struct {
	ID        string
	Relevance float64
}

// eligible 候选过滤：未过期或永久、非本人、未看过
func eligible(db *gorm.DB, userID string, now time.Time) *gorm.DB {
	return db.
		Where("(s.is_permanent = ? OR s.expires_at IS NULL OR s.expires_at >= ?)", true, now).
		Where("s.user_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM story_views sv WHERE sv.story_id = s.id AND sv.user_id = ?)", userID)
}

func (r *storyRepository) FeedRecent(ctx context.Context, userID string, now time.Time, limit int) ([]*model.RankedStory, error) {
	var rows []feedRow
	err := eligible(r.db.WithContext(ctx).Table("stories AS s"), userID, now).
		Select("s.id AS id, 0 AS relevance").
		Order("s.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

func (r *storyRepository) FeedRanked(ctx context.Context, userID string, now time.Time, limit int) ([]*model.RankedStory, error) {
	var rows []feedRow
	err := eligible(r.db.WithContext(ctx).Table("stories AS s"), userID, now).
		Select("s.id AS id, "+relevanceExpr+" AS relevance").
		Joins("LEFT JOIN story_tags st ON st.story_id = s.id").
		Joins("LEFT JOIN user_interests ui ON ui.tag_id = st.tag_id AND ui.user_id = ?", userID).
		Group("s.id, s.created_at").
		// 正相关在前按分数降序；其余（0/负/无交集）统一按时间
		Order("CASE WHEN " + relevanceExpr + " > 0 THEN 0 ELSE 1 END").
		Order("CASE WHEN " + relevanceExpr + " > 0 THEN " + relevanceExpr + " ELSE 0 END DESC").
		Order("s.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// hydrate 按 rows 的顺序加载完整快拍与标签
func (r *storyRepository) hydrate(ctx context.Context, rows []feedRow) ([]*model.RankedStory, error) {
	if len(rows) == 0 {
		return []*model.RankedStory{}, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var stories []model.Story
	if err := r.db.WithContext(ctx).Preload("Tags").Where("id IN ?", ids).Find(&stories).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.Story, len(stories))
	for _, s := range stories {
		byID[s.ID] = s
	}

	out := make([]*model.RankedStory, 0, len(rows))
	for _, row := range rows {
		s, ok := byID[row.ID]
		if !ok {
			continue
		}
		s.FillLabels()
		out = append(out, &model.RankedStory{Story: s, Relevance: row.Relevance})
	}
	return out, nil
}

func (r *storyRepository) MarkViewed(ctx context.Context, userID, storyID string, now time.Time) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v := &model.StoryView{ID: uuid.New().String(), UserID: userID, StoryID: storyID, CreatedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(v)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&model.Story{}).
			Where("id = ?", storyID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	})
	return created, err
}

func (r *storyRepository) Like(ctx context.Context, userID, storyID string, threshold int64, now time.Time) (*LikeResult, error) {
	out := &LikeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l := &model.StoryLike{ID: uuid.New().String(), UserID: userID, StoryID: storyID, ReactionType: "like", CreatedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(l)
		if res.Error != nil {
			return res.Error
		}
		// 唯一约束吞掉重复插入时不再 +1
		if res.RowsAffected > 0 {
			out.Changed = true
			if err := tx.Model(&model.Story{}).
				Where("id = ?", storyID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
		}

		s, err := lockCounters(tx, storyID)
		if err != nil {
			return err
		}
		out.LikesCount = s.LikesCount
		out.IsPermanent = s.IsPermanent
		if !s.IsPermanent && s.LikesCount >= threshold {
			if err := tx.Model(&model.Story{}).
				Where("id = ?", storyID).
				UpdateColumn("is_permanent", true).Error; err != nil {
				return err
			}
			out.IsPermanent = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *storyRepository) Unlike(ctx context.Context, userID, storyID string) (*LikeResult, error) {
	out := &LikeResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&model.StoryLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			out.Changed = true
			if err := tx.Model(&model.Story{}).
				Where("id = ?", storyID).
				UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
		}
		// 永久标记单向，不因取消点赞而清除
		s, err := lockCounters(tx, storyID)
		if err != nil {
			return err
		}
		out.LikesCount = s.LikesCount
		out.IsPermanent = s.IsPermanent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lockCounters(tx *gorm.DB, storyID string) (*model.Story, error) {
	var rows []model.Story
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "likes_count", "is_permanent").
		Where("id = ?", storyID).
		Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *storyRepository) IsLiked(ctx context.Context, userID, storyID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
