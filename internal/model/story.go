package model

import "time"

// PostKind 内容类型
type PostKind string

const (
	PostKindStory PostKind = "story"
	PostKindPost  PostKind = "post"
)

// Story 可过期的分享内容。标签在创建时冻结，无编辑路径。
// IsPermanent 由点赞数越过阈值单向置位，置位后不再参与过期判断。
type Story struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string     `json:"user_id" gorm:"type:varchar(36);not null;index:idx_story_user"`
	Text        string     `json:"text" gorm:"type:text"`
	MediaURL    string     `json:"media_url" gorm:"type:varchar(255)"`
	TextOverlay string     `json:"text_overlay,omitempty" gorm:"type:text"`
	PostType    PostKind   `json:"post_type" gorm:"type:varchar(20);not null;default:story"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_story_created"`
	ExpiresAt   *time.Time `json:"expires_at" gorm:"index:idx_story_expires"`
	ViewCount   int64      `json:"view_count" gorm:"not null;default:0"`
	LikesCount  int64      `json:"likes_count" gorm:"not null;default:0"`
	IsPermanent bool       `json:"is_permanent" gorm:"not null;default:false"`

	Tags   []Tag    `json:"-" gorm:"many2many:story_tags"`
	Labels []string `json:"tags" gorm:"-"`
}

func (Story) TableName() string { return "stories" }

// Expired 判断 now 时刻是否已下架
func (s *Story) Expired(now time.Time) bool {
	if s.IsPermanent || s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}

// FillLabels 由预加载的 Tags 填充 Labels
func (s *Story) FillLabels() {
	s.Labels = make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		s.Labels = append(s.Labels, t.Name)
	}
}

// RankedStory 推荐流条目，携带相关度
type RankedStory struct {
	Story
	Relevance float64 `json:"relevance_score"`
}
