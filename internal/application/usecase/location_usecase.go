package usecase

import (
	"context"
	"fmt"
	"sort"
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

// LocationUseCase casos de uso de ubicaciones físicas del almacén: CRUD y
// consulta de cupo libre.
type LocationUseCase struct {
	repo     repository.LocationRepository
	records  repository.InventoryRecordRepository
	putaways repository.PutAwayTaskRepository
	log      zerolog.Logger
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	repo repository.LocationRepository,
	records repository.InventoryRecordRepository,
	putaways repository.PutAwayTaskRepository,
	log zerolog.Logger,
) *LocationUseCase {
	return &LocationUseCase{repo: repo, records: records, putaways: putaways, log: log}
}

// Create registra una ubicación nueva con código único.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	locType := strings.ToUpper(strings.TrimSpace(in.Type))
	switch locType {
	case entity.LocationTypePick, entity.LocationTypeBulk,
		entity.LocationTypeReceiving, entity.LocationTypeStaging:
	default:
		return nil, fmt.Errorf("tipo de ubicación %q: %w", in.Type, domain.ErrValidation)
	}
	if in.Capacity.IsNegative() {
		return nil, fmt.Errorf("capacidad %s: %w", in.Capacity, domain.ErrValidation)
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("ubicación %s: %w", in.Code, domain.ErrDuplicate)
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Type:      locType,
		Zone:      in.Zone,
		Capacity:  in.Capacity,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	uc.log.Info().Str("ubicacion", location.Code).Str("tipo", location.Type).Msg("ubicación creada")
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// GetByCode obtiene una ubicación por su código.
func (uc *LocationUseCase) GetByCode(ctx context.Context, code string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// Update actualiza zona, capacidad o estado. El código y el tipo no cambian:
// nacen con la ubicación física.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	if in.Zone != nil {
		location.Zone = *in.Zone
	}
	if in.Capacity != nil {
		if in.Capacity.IsNegative() {
			return nil, fmt.Errorf("capacidad %s: %w", in.Capacity, domain.ErrValidation)
		}
		location.Capacity = *in.Capacity
	}
	if in.Active != nil {
		location.Active = *in.Active
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListAvailable lista las ubicaciones almacenables (PICK y BULK activas) con
// su cupo libre, ordenadas por código. El ocupado de cada una suma el stock
// en piso y los put-away pendientes que ya viajan hacia ella. minCapacity
// filtra las que no alcanzan ese espacio; capacidad cero significa sin
// límite y siempre califica.
func (uc *LocationUseCase) ListAvailable(ctx context.Context, minCapacity decimal.Decimal) (*dto.AvailableLocationListResponse, error) {
	if minCapacity.IsNegative() {
		return nil, fmt.Errorf("capacidad mínima %s: %w", minCapacity, domain.ErrValidation)
	}
	inbound, err := uc.pendingInbound(ctx)
	if err != nil {
		return nil, err
	}
	var candidates []*entity.Location
	for _, locType := range []string{entity.LocationTypePick, entity.LocationTypeBulk} {
		list, err := uc.repo.ListByType(ctx, locType)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, list...)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Code < candidates[j].Code })

	out := &dto.AvailableLocationListResponse{Items: []dto.AvailableLocationResponse{}}
	for _, loc := range candidates {
		if !loc.EsAlmacenable() {
			continue
		}
		records, err := uc.records.ListByLocation(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		occupied := inbound[loc.ID]
		for _, r := range records {
			occupied = occupied.Add(r.OnHand)
		}
		item := dto.AvailableLocationResponse{
			Location: *toLocationResponse(loc),
			Occupied: occupied,
		}
		if loc.Capacity.IsZero() {
			item.Unlimited = true
		} else {
			item.Available = loc.Capacity.Sub(occupied)
			if !item.Available.IsPositive() || item.Available.LessThan(minCapacity) {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// pendingInbound agrega la cantidad en tareas de put-away pendientes por
// ubicación de destino.
func (uc *LocationUseCase) pendingInbound(ctx context.Context) (map[string]decimal.Decimal, error) {
	tasks, err := uc.putaways.ListByStatus(ctx, entity.PutAwayStatusPending)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(tasks))
	for _, t := range tasks {
		out[t.ToLocationID] = out[t.ToLocationID].Add(t.Quantity)
	}
	return out, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Type:      l.Type,
		Zone:      l.Zone,
		Capacity:  l.Capacity,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
