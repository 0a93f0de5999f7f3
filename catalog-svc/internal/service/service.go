package service

import (
	"context"
	"fmt"

	"sergei-eats/catalog-svc/internal/domain"
	"sergei-eats/catalog-svc/internal/storage"
	"sergei-eats/pricing"
	"sergei-eats/provider"

	"go.uber.org/zap"
)

// CatalogRepository is the catalog read surface plus discount issuing.
// provider.Memory and storage.PostgresRepository both satisfy it.
type CatalogRepository interface {
	provider.Catalog
	IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error)
}

// DiscountCache holds the active discount list. A miss is (nil, false, nil).
type DiscountCache interface {
	GetActive(ctx context.Context) ([]pricing.Discount, bool, error)
	SetActive(ctx context.Context, discounts []pricing.Discount) error
	Invalidate(ctx context.Context) error
}

type CatalogServiceInterface interface {
	Restaurants(ctx context.Context) ([]provider.Restaurant, error)
	Restaurant(ctx context.Context, id string) (*provider.Restaurant, error)
	Categories(ctx context.Context, restaurantID string) ([]provider.MenuCategory, error)
	Menu(ctx context.Context, restaurantID string) (*domain.RestaurantMenu, error)
	MenuItem(ctx context.Context, id string) (*provider.MenuItem, error)
	ActiveDiscounts(ctx context.Context) ([]pricing.Discount, error)
	Discount(ctx context.Context, code string) (*pricing.Discount, error)
	IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error)
	RedeemDiscount(ctx context.Context, code string) error
}

type CatalogService struct {
	repo   CatalogRepository
	cache  DiscountCache
	logger *zap.Logger
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ CatalogRepository       = (*provider.Memory)(nil)
	_ CatalogRepository       = (*storage.PostgresRepository)(nil)
	_ DiscountCache           = (*storage.DiscountCache)(nil)
)

func NewCatalogService(repo CatalogRepository, cache DiscountCache, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

func (s *CatalogService) Restaurants(ctx context.Context) ([]provider.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

// Restaurant returns inactive restaurants too; placement needs to tell a
// closed restaurant from an unknown one.
func (s *CatalogService) Restaurant(ctx context.Context, id string) (*provider.Restaurant, error) {
	return s.repo.GetRestaurant(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context, restaurantID string) ([]provider.MenuCategory, error) {
	if _, err := s.repo.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, restaurantID)
}

func (s *CatalogService) Menu(ctx context.Context, restaurantID string) (*domain.RestaurantMenu, error) {
	restaurant, err := s.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items, err := s.repo.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return &domain.RestaurantMenu{Restaurant: *restaurant, Categories: categories, Items: items}, nil
}

func (s *CatalogService) MenuItem(ctx context.Context, id string) (*provider.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *CatalogService) ActiveDiscounts(ctx context.Context) ([]pricing.Discount, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetActive(ctx)
		if err != nil {
			s.logger.Warn("discount cache read failed", zap.Error(err))
		}
		if ok {
			return cached, nil
		}
	}

	discounts, err := s.repo.ListActiveDiscounts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetActive(ctx, discounts); err != nil {
			s.logger.Warn("discount cache write failed", zap.Error(err))
		}
	}
	return discounts, nil
}

func (s *CatalogService) Discount(ctx context.Context, code string) (*pricing.Discount, error) {
	d, err := s.repo.FindDiscountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("discount %s: %w", pricing.NormalizeCode(code), domain.ErrNotFound)
	}
	return d, nil
}

func (s *CatalogService) IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error) {
	if err := domain.ValidateIssue(d); err != nil {
		return nil, err
	}
	d.Code = pricing.NormalizeCode(d.Code)

	issued, err := s.repo.IssueDiscount(ctx, d)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("discount issued", zap.String("code", issued.Code), zap.String("type", string(issued.Type)))
	return issued, nil
}

// RedeemDiscount records one use. Usage counts feed the exhaustion check, so
// the cached active list is dropped as well.
func (s *CatalogService) RedeemDiscount(ctx context.Context, code string) error {
	if err := s.repo.RedeemDiscount(ctx, code); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("discount cache invalidation failed", zap.Error(err))
	}
}
