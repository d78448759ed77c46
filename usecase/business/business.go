package business

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/repository"
	"github.com/setuponce/backend/usecase"
)

const adminPageSize = 50

type Settle struct {
	Delay    time.Duration
	Attempts int
}

// UseCase resolves and maintains the business that scopes every tenant request.
type UseCase struct {
	businesses repository.BusinessRepository
	cache      repository.BusinessCache
	notifier   usecase.Notifier
	settle     Settle
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

func New(businesses repository.BusinessRepository, cache repository.BusinessCache, notifier usecase.Notifier, settle Settle, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = usecase.NopNotifier()
	}
	if settle.Attempts < 1 {
		settle.Attempts = 1
	}
	return &UseCase{
		businesses: businesses,
		cache:      cache,
		notifier:   notifier,
		settle:     settle,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// Resolve returns the business of the profile, or nil when it has none.
// Cached values are used when present.
func (uc *UseCase) Resolve(ctx context.Context, profile domain.Profile) (*domain.Business, error) {
	if cached := uc.cached(ctx, profile.UserID); cached != nil {
		return cached, nil
	}
	business, err := uc.load(ctx, profile)
	if err != nil || business == nil {
		return business, err
	}
	uc.store(ctx, profile.UserID, business)
	return business, nil
}

// Current returns the scoped business or ErrBusinessNotFound, the absent state
// the dashboard turns into the setup form.
func (uc *UseCase) Current(_ context.Context, scope domain.Scope) (*domain.Business, error) {
	if scope.Business == nil {
		return nil, domain.ErrBusinessNotFound
	}
	return scope.Business, nil
}

// Create runs business setup for an owner without a business and returns the
// business as re-read after the insert.
func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, in domain.BusinessInput) (*domain.Business, error) {
	if !scope.CanCreateBusiness() {
		return nil, domain.ErrForbidden
	}
	if scope.Business != nil {
		return nil, domain.ErrBusinessExists
	}
	if err := usecase.Validate(in); err != nil {
		return nil, err
	}
	business, err := domain.BuildBusiness(scope.Identity, in)
	if err != nil {
		return nil, err
	}

	if err := uc.businesses.Create(ctx, business); err != nil {
		uc.logger.Warn("business create failed", zap.String("owner_id", scope.Identity), zap.Error(err))
		uc.notifier.Error(ctx, "", "Failed to create business", err.Error())
		return nil, err
	}
	uc.notifier.Success(ctx, business.ID, "Business created", business.Name)

	refreshed, err := uc.Refresh(ctx, scope)
	if err != nil {
		return nil, err
	}
	if refreshed.Business == nil {
		uc.logger.Warn("business not visible after settle loop", zap.String("business_id", business.ID))
		return business, nil
	}
	return refreshed.Business, nil
}

// Update edits the settings of the scoped business.
func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, in domain.BusinessInput) (*domain.Business, error) {
	if !scope.CanManageBusiness() {
		return nil, domain.ErrForbidden
	}
	if scope.Business == nil {
		return nil, domain.ErrBusinessRequired
	}
	if err := usecase.Validate(in); err != nil {
		return nil, err
	}
	business, err := domain.BuildBusiness(scope.Identity, in)
	if err != nil {
		return nil, err
	}
	business.ID = scope.Business.ID

	if err := uc.businesses.Update(ctx, business); err != nil {
		uc.notifier.Error(ctx, business.ID, "Failed to update business", err.Error())
		return nil, err
	}
	uc.notifier.Success(ctx, business.ID, "Business updated", "")

	refreshed, err := uc.Refresh(ctx, scope)
	if err != nil {
		return nil, err
	}
	if refreshed.Business == nil {
		return business, nil
	}
	return refreshed.Business, nil
}

// Refresh drops the cached business of the identity and re-reads it, retrying
// a few times so a just-written business becomes visible. It returns a new
// scope; the one passed in is left untouched.
func (uc *UseCase) Refresh(ctx context.Context, scope domain.Scope) (domain.Scope, error) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, scope.Identity); err != nil {
			uc.logger.Warn("business cache invalidate failed", zap.String("identity", scope.Identity), zap.Error(err))
		}
	}

	for attempt := 1; attempt <= uc.settle.Attempts; attempt++ {
		business, err := uc.load(ctx, scope.Profile)
		if err != nil {
			return scope, err
		}
		if business != nil {
			uc.store(ctx, scope.Identity, business)
			return scope.WithBusiness(business), nil
		}
		if attempt < uc.settle.Attempts {
			if err := uc.sleep(ctx, uc.settle.Delay); err != nil {
				return scope, err
			}
		}
	}
	return scope.WithBusiness(nil), nil
}

// ListAll pages through every business. Admins only.
func (uc *UseCase) ListAll(ctx context.Context, scope domain.Scope, page int) ([]domain.Business, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	businesses, err := uc.businesses.ListAll(ctx, adminPageSize, (page-1)*adminPageSize)
	if err != nil {
		return nil, err
	}
	if businesses == nil {
		businesses = []domain.Business{}
	}
	return businesses, nil
}

func (uc *UseCase) load(ctx context.Context, profile domain.Profile) (*domain.Business, error) {
	var (
		business *domain.Business
		err      error
	)
	switch profile.Role {
	case domain.RoleOwner:
		business, err = uc.businesses.GetByOwner(ctx, profile.UserID)
	case domain.RoleTeamMember:
		business, err = uc.businesses.GetByMember(ctx, profile.UserID)
	case domain.RoleAdmin:
		return nil, nil
	default:
		return nil, domain.ErrForbidden
	}
	if domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, nil
	}
	return business, err
}

func (uc *UseCase) cached(ctx context.Context, identity string) *domain.Business {
	if uc.cache == nil {
		return nil
	}
	business, err := uc.cache.Get(ctx, identity)
	if err != nil {
		uc.logger.Warn("business cache read failed", zap.String("identity", identity), zap.Error(err))
		return nil
	}
	return business
}

func (uc *UseCase) store(ctx context.Context, identity string, business *domain.Business) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, identity, business); err != nil {
		uc.logger.Warn("business cache write failed", zap.String("identity", identity), zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
