package service

import (
	"errors"
	"time"
)

var (
	ErrInvalidDirection   = errors.New("invalid swipe direction")
	ErrMissingID          = errors.New("missing required identifier")
	ErrStoryNotFound      = errors.New("story not found")
	ErrSnapNotFound       = errors.New("snap not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrStreakNotFound     = errors.New("no streak between users")
	ErrEmptyStory         = errors.New("story must have text or media")
	ErrEmptySnap          = errors.New("snap must have text or media")
	ErrTextTooLong        = errors.New("text too long")
	ErrNotFriends         = errors.New("can only send snaps to friends")
	ErrFriendSelf         = errors.New("cannot add yourself as friend")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrEmptyQuery         = errors.New("search query required")
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Clock 可注入的时间源
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }
