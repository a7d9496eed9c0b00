package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-course-market/internal/domain"
	"go-course-market/pkg/utils"
)

type VendorInput struct {
	Name        string
	Description string
	Mobile      string
	Slug        string
}

type Vendors struct {
	uow     domain.UnitOfWork
	vendors domain.VendorRepository
}

func NewVendors(uow domain.UnitOfWork, vendors domain.VendorRepository) *Vendors {
	return &Vendors{uow: uow, vendors: vendors}
}

// Become 当前用户开通 vendor；默认未激活，需后台审核
func (s *Vendors) Become(ctx context.Context, uid uint, in VendorInput) (*domain.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	v := &domain.Vendor{
		UserID:      uid,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Mobile:      strings.TrimSpace(in.Mobile),
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if _, err := s.vendors.FindByUserID(ctx, uid); err == nil {
			return invalid("user is already a vendor")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		slug, err := s.uniqueSlug(ctx, in.Slug, name)
		if err != nil {
			return err
		}
		v.Slug = slug
		return s.vendors.Create(ctx, v)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConstraint) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return nil, err
	}
	return v, nil
}

func (s *Vendors) uniqueSlug(ctx context.Context, want, name string) (string, error) {
	base := utils.Slugify(want)
	if base == "" {
		base = utils.Slugify(name)
	}
	if base == "" {
		base = "vendor"
	}
	slug := base
	for i := 0; i < 5; i++ {
		taken, err := s.vendors.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + utils.ShortSuffix()
	}
	return "", fmt.Errorf("%w: could not allocate a unique slug", domain.ErrConstraint)
}

func (s *Vendors) SetActive(ctx context.Context, vendorID uint, active bool) error {
	return s.vendors.SetActive(ctx, vendorID, active)
}
