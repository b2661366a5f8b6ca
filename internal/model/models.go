package model

// All 返回需要迁移的全部模型
func All() []any {
	return []any{
		&User{},
		&Friendship{},
		&Streak{},
		&Snap{},
		&Story{},
		&Tag{},
		&StoryTag{},
		&UserInterest{},
		&StoryView{},
		&Swipe{},
		&StoryLike{},
	}
}
