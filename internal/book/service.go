package book

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service provides book-related business logic on top of a Repository.
// Each book is either absent or present; create, update and delete move
// it between those states, and every missing-id access surfaces
// ErrNotFound unchanged.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// FindAll returns every book mapped to its wire shape, in store-native
// order.
func (s *Service) FindAll(ctx context.Context) ([]Response, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(books))
	for i := range books {
		out = append(out, *ToResponse(&books[i]))
	}
	return out, nil
}

// FindPage returns one page of books under the requested ordering,
// wrapped in the pagination envelope.
func (s *Service) FindPage(ctx context.Context, q PageQuery) (Page, error) {
	books, total, err := s.repo.ListPage(ctx, q)
	if err != nil {
		return Page{}, err
	}
	content := make([]Response, 0, len(books))
	for i := range books {
		content = append(content, *ToResponse(&books[i]))
	}
	return NewPage(content, q.Page, q.Size, total), nil
}

// FindByID returns the book with the given id or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id int64) (Response, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return *ToResponse(&b), nil
}

// Create persists a new book built from the request. The store assigns
// the id.
func (s *Service) Create(ctx context.Context, req *Request) (Response, error) {
	b := ToEntity(req)
	if err := s.repo.Insert(ctx, b); err != nil {
		return Response{}, err
	}
	s.log.Info("created book",
		zap.String("title", b.Title),
		zap.String("author", b.Author),
		zap.Int64("id", b.ID),
	)
	return *ToResponse(b), nil
}

// Update loads the existing book, applies the request wholesale and
// persists the result. Fails with ErrNotFound before any write when the
// id does not exist.
func (s *Service) Update(ctx context.Context, id int64, req *Request) (Response, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	ApplyUpdate(&b, req)
	if err := s.repo.Update(ctx, &b); err != nil {
		return Response{}, err
	}
	s.log.Info("updated book", zap.Int64("id", id))
	return *ToResponse(&b), nil
}

// Delete removes the book with the given id or fails with ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn("attempted to delete non-existent book", zap.Int64("id", id))
		}
		return err
	}
	s.log.Info("deleted book", zap.Int64("id", id))
	return nil
}
