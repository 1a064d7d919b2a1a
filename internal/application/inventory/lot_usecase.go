package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invorya/wms-api/internal/application/dto"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
	"github.com/invorya/wms-api/internal/domain/repository"
)

// LotUseCase administra lotes: alta manual, consulta por SKU y la ventana
// de vencimientos que alimenta la alerta diaria.
type LotUseCase struct {
	lots     repository.LotRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewLotUseCase construye el caso de uso de lotes.
func NewLotUseCase(lots repository.LotRepository, products repository.ProductRepository, log zerolog.Logger) *LotUseCase {
	return &LotUseCase{lots: lots, products: products, log: log}
}

// Create registra un lote. El SKU debe existir en el catálogo y los
// productos perecederos exigen fecha de vencimiento.
func (uc *LotUseCase) Create(ctx context.Context, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.SKU == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Perishable && in.ExpiryDate == nil {
		return nil, domain.ErrValidation
	}
	existing, err := uc.lots.GetBySKUAndCode(ctx, in.SKU, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	lot := &entity.Lot{
		ID:         uuid.New().String(),
		SKU:        in.SKU,
		Code:       in.Code,
		ExpiryDate: in.ExpiryDate,
		ReceivedAt: now,
		CreatedAt:  now,
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	uc.log.Info().Str("sku", lot.SKU).Str("lote", lot.Code).Msg("lote registrado")
	return toLotResponse(lot), nil
}

// ListBySKU devuelve los lotes de un SKU.
func (uc *LotUseCase) ListBySKU(ctx context.Context, sku string) ([]dto.LotResponse, error) {
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	lots, err := uc.lots.ListBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, *toLotResponse(lot))
	}
	return out, nil
}

// Expiring devuelve los lotes que vencen dentro de los próximos days días,
// incluidos los ya vencidos.
func (uc *LotUseCase) Expiring(ctx context.Context, days int) (*dto.ExpiringLotListResponse, error) {
	if days <= 0 {
		days = 30
	}
	limit := time.Now().AddDate(0, 0, days)
	lots, err := uc.lots.ListExpiringBefore(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.ExpiringLotListResponse{Days: days, Items: make([]dto.ExpiringLotResponse, 0, len(lots))}
	now := time.Now()
	for _, lot := range lots {
		daysLeft := int(lot.ExpiryDate.Sub(now).Hours() / 24)
		out.Items = append(out.Items, dto.ExpiringLotResponse{Lot: *toLotResponse(lot), DaysLeft: daysLeft})
	}
	return out, nil
}

func toLotResponse(lot *entity.Lot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:         lot.ID,
		SKU:        lot.SKU,
		Code:       lot.Code,
		ExpiryDate: lot.ExpiryDate,
		ReceivedAt: lot.ReceivedAt,
	}
}
