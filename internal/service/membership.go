package service

import (
	"context"
	"fmt"

	"sarasavi-library-backend/internal/domain"
	"sarasavi-library-backend/internal/repository"
)

type membershipService struct {
	store repository.Store
}

func NewMembershipService(store repository.Store) MembershipService {
	return &membershipService{store: store}
}

func (s *membershipService) EnrollMember(ctx context.Context, name, sex, nic, address, email string, memberType domain.MemberType) (*domain.Member, error) {
	if name == "" {
		return nil, fmt.Errorf("member name is required: %w", domain.ErrInvalidInput)
	}
	switch memberType {
	case domain.MemberTypeMember, domain.MemberTypeVisitor:
	default:
		return nil, fmt.Errorf("unknown member type %q: %w", memberType, domain.ErrInvalidInput)
	}

	var member *domain.Member
	var err error
	for attempt := 0; attempt < idAllocRetries; attempt++ {
		err = s.store.ExecTx(ctx, func(repos repository.Repositories) error {
			maxID, err := repos.Members.MaxID(ctx)
			if err != nil {
				return fmt.Errorf("failed to read member sequence: %w", err)
			}
			id, err := nextMemberID(maxID)
			if err != nil {
				return err
			}
			member = &domain.Member{
				ID:      id,
				Name:    name,
				Sex:     sex,
				NIC:     nic,
				Address: address,
				Email:   email,
				Type:    memberType,
			}
			if err := repos.Members.Create(ctx, member); err != nil {
				return fmt.Errorf("failed to create member: %w", err)
			}
			return nil
		})
		if err == nil || !isDuplicate(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *membershipService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.store.Repos().Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	return member, nil
}

func (s *membershipService) SearchMembers(ctx context.Context, term string) ([]domain.Member, error) {
	members, err := s.store.Repos().Members.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

func (s *membershipService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.store.Repos().Members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
