package book

import (
	"context"
	"fmt"
)

type Service interface {
	GetBooks(ctx context.Context) ([]Book, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.FindBooks(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get list of books: %w", err)
	}
	return books, nil
}
