package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/onyx/internal/repository"
)

const searchLimit = 20

// FriendService 好友关系
type FriendService interface {
	Add(ctx context.Context, userID, friendID string) error
	Remove(ctx context.Context, userID, friendID string) error
	List(ctx context.Context, userID string) ([]repository.FriendSummary, error)
	Search(ctx context.Context, userID, query string) ([]repository.UserSearchResult, error)
}

type friendService struct {
	friends repository.FriendshipRepository
	users   repository.UserRepository
}

func NewFriendService(friends repository.FriendshipRepository, users repository.UserRepository) FriendService {
	return &friendService{friends: friends, users: users}
}

func (s *friendService) Add(ctx context.Context, userID, friendID string) error {
	if userID == "" || friendID == "" {
		return ErrMissingID
	}
	if userID == friendID {
		return ErrFriendSelf
	}
	ok, err := s.users.Exists(ctx, friendID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	created, err := s.friends.Create(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyFriends
	}
	return nil
}

func (s *friendService) Remove(ctx context.Context, userID, friendID string) error {
	return s.friends.Delete(ctx, userID, friendID)
}

func (s *friendService) List(ctx context.Context, userID string) ([]repository.FriendSummary, error) {
	items, err := s.friends.ListWithStreaks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []repository.FriendSummary{}
	}
	return items, nil
}

func (s *friendService) Search(ctx context.Context, userID, query string) ([]repository.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	res, err := s.users.Search(ctx, userID, query, searchLimit)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []repository.UserSearchResult{}
	}
	return res, nil
}
