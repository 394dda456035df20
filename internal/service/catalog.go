package service

import (
	"context"
	"fmt"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

// idAllocRetries bounds how many times an id allocation is retried when
// a concurrent transaction wins the same identifier.
const idAllocRetries = 3

type catalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) RegisterTitle(ctx context.Context, classification byte, name, author, isbn, publisher string, copies int, reference bool) (*domain.Title, []domain.Copy, error) {
	if classification < 'A' || classification > 'Z' {
		return nil, nil, fmt.Errorf("classification must be an uppercase letter: %w", domain.ErrInvalidInput)
	}
	if name == "" {
		return nil, nil, fmt.Errorf("title name is required: %w", domain.ErrInvalidInput)
	}
	if copies < 1 || copies > domain.MaxCopiesPerTitle {
		return nil, nil, fmt.Errorf("copy count %d out of range: %w", copies, domain.ErrLimitExceeded)
	}

	var (
		title   *domain.Title
		created []domain.Copy
	)
	err := s.allocate(ctx, func(repos repository.Repositories) error {
		title = nil
		created = created[:0]

		maxID, err := repos.Titles.MaxIDForClassification(ctx, classification)
		if err != nil {
			return fmt.Errorf("failed to read title sequence: %w", err)
		}
		id, err := nextTitleID(classification, maxID)
		if err != nil {
			return err
		}

		title = &domain.Title{
			ID:             id,
			Classification: classification,
			Name:           name,
			Author:         author,
			ISBN:           isbn,
			Publisher:      publisher,
		}
		if err := repos.Titles.Create(ctx, title); err != nil {
			return fmt.Errorf("failed to create title: %w", err)
		}

		for ordinal := 1; ordinal <= copies; ordinal++ {
			c, err := newCopy(ctx, repos, title.ID, ordinal, reference)
			if err != nil {
				return err
			}
			created = append(created, *c)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return title, created, nil
}

func (s *catalogService) AddCopies(ctx context.Context, titleID string, count int, reference bool) ([]domain.Copy, error) {
	if count < 1 {
		return nil, fmt.Errorf("copy count %d out of range: %w", count, domain.ErrLimitExceeded)
	}

	var created []domain.Copy
	err := s.allocate(ctx, func(repos repository.Repositories) error {
		created = created[:0]

		if _, err := repos.Titles.GetByID(ctx, titleID); err != nil {
			return fmt.Errorf("failed to get title %s: %w", titleID, err)
		}
		existing, err := repos.Copies.CountByTitle(ctx, titleID)
		if err != nil {
			return fmt.Errorf("failed to count copies: %w", err)
		}
		if existing+count > domain.MaxCopiesPerTitle {
			return fmt.Errorf("title %s already has %d copies: %w", titleID, existing, domain.ErrLimitExceeded)
		}

		for i := 0; i < count; i++ {
			c, err := newCopy(ctx, repos, titleID, existing+i+1, reference)
			if err != nil {
				return err
			}
			created = append(created, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func newCopy(ctx context.Context, repos repository.Repositories, titleID string, ordinal int, reference bool) (*domain.Copy, error) {
	id, err := copyID(titleID, ordinal)
	if err != nil {
		return nil, err
	}
	status := domain.CopyStatusAvailable
	if reference {
		status = domain.CopyStatusReference
	}
	c := &domain.Copy{
		ID:         id,
		TitleID:    titleID,
		Status:     status,
		Borrowable: !reference,
	}
	if err := repos.Copies.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create copy %s: %w", id, err)
	}
	return c, nil
}

func (s *catalogService) InquireTitle(ctx context.Context, titleID string) (*TitleInquiry, error) {
	repos := s.store.Repos()

	title, err := repos.Titles.GetByID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get title %s: %w", titleID, err)
	}
	copies, err := repos.Copies.ListByTitle(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list copies: %w", err)
	}
	reservations, err := repos.Reservations.CountByTitle(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	return &TitleInquiry{
		Title:        *title,
		Copies:       copies,
		Counts:       domain.CountCopies(copies),
		Reservations: reservations,
	}, nil
}

func (s *catalogService) SearchTitles(ctx context.Context, term string) ([]domain.Title, error) {
	titles, err := s.store.Repos().Titles.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	return titles, nil
}

func (s *catalogService) ListTitles(ctx context.Context) ([]domain.Title, error) {
	titles, err := s.store.Repos().Titles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	return titles, nil
}

// allocate runs fn in a transaction, retrying when a concurrent
// transaction claimed the same generated identifier first.
func (s *catalogService) allocate(ctx context.Context, fn func(repository.Repositories) error) error {
	var err error
	for attempt := 0; attempt < idAllocRetries; attempt++ {
		err = s.store.ExecTx(ctx, fn)
		if err == nil || !isDuplicate(err) {
			return err
		}
	}
	return err
}
