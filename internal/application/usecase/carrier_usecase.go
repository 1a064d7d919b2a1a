package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// CarrierUseCase casos de uso CRUD de transportadoras.
type CarrierUseCase struct {
	repo repository.CarrierRepository
	log  zerolog.Logger
}

// NewCarrierUseCase construye el caso de uso.
func NewCarrierUseCase(repo repository.CarrierRepository, log zerolog.Logger) *CarrierUseCase {
	return &CarrierUseCase{repo: repo, log: log}
}

// Create registra una transportadora activa con código único.
func (uc *CarrierUseCase) Create(ctx context.Context, in dto.CreateCarrierRequest) (*dto.CarrierResponse, error) {
	if in.Code == "" || in.Name == "" || len(in.ServiceAreas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateOnTimeRate(in.OnTimeRate); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("transportadora %s: %w", code, domain.ErrDuplicate)
	}
	now := time.Now()
	carrier := &entity.Carrier{
		ID:             uuid.New().String(),
		Code:           code,
		Name:           in.Name,
		Active:         true,
		ServiceAreas:   in.ServiceAreas,
		MaxWeightKg:    in.MaxWeightKg,
		MaxDimensionCm: in.MaxDimensionCm,
		BaseRate:       in.BaseRate,
		RatePerKg:      in.RatePerKg,
		OnTimeRate:     in.OnTimeRate,
		TransitDays:    in.TransitDays,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, carrier); err != nil {
		return nil, err
	}
	uc.log.Info().Str("transportadora", carrier.Code).Msg("transportadora registrada")
	return toCarrierResponse(carrier), nil
}

// GetByID obtiene una transportadora por ID.
func (uc *CarrierUseCase) GetByID(ctx context.Context, id string) (*dto.CarrierResponse, error) {
	carrier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, nil
	}
	return toCarrierResponse(carrier), nil
}

// Update actualiza los campos presentes de la transportadora.
func (uc *CarrierUseCase) Update(ctx context.Context, id string, in dto.UpdateCarrierRequest) (*dto.CarrierResponse, error) {
	carrier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if carrier == nil {
		return nil, nil
	}
	if in.Name != nil {
		carrier.Name = *in.Name
	}
	if in.Active != nil {
		carrier.Active = *in.Active
	}
	if len(in.ServiceAreas) > 0 {
		carrier.ServiceAreas = in.ServiceAreas
	}
	if in.MaxWeightKg != nil {
		carrier.MaxWeightKg = *in.MaxWeightKg
	}
	if in.MaxDimensionCm != nil {
		carrier.MaxDimensionCm = *in.MaxDimensionCm
	}
	if in.BaseRate != nil {
		carrier.BaseRate = *in.BaseRate
	}
	if in.RatePerKg != nil {
		carrier.RatePerKg = *in.RatePerKg
	}
	if in.OnTimeRate != nil {
		if err := validateOnTimeRate(*in.OnTimeRate); err != nil {
			return nil, err
		}
		carrier.OnTimeRate = *in.OnTimeRate
	}
	if in.TransitDays != nil {
		carrier.TransitDays = *in.TransitDays
	}
	carrier.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, carrier); err != nil {
		return nil, err
	}
	return toCarrierResponse(carrier), nil
}

// List lista transportadoras con paginación.
func (uc *CarrierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CarrierListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CarrierResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCarrierResponse(c))
	}
	return &dto.CarrierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// validateOnTimeRate exige una confiabilidad en el rango [0, 1].
func validateOnTimeRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("confiabilidad %s fuera de [0,1]: %w", rate, domain.ErrValidation)
	}
	return nil
}

func toCarrierResponse(c *entity.Carrier) *dto.CarrierResponse {
	if c == nil {
		return nil
	}
	return &dto.CarrierResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		Active:         c.Active,
		ServiceAreas:   c.ServiceAreas,
		MaxWeightKg:    c.MaxWeightKg,
		MaxDimensionCm: c.MaxDimensionCm,
		BaseRate:       c.BaseRate,
		RatePerKg:      c.RatePerKg,
		OnTimeRate:     c.OnTimeRate,
		TransitDays:    c.TransitDays,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
