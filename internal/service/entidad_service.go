package service

import (
	"context"
	"errors"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntidadService administra clientes y proveedores, los dos extremos
// de la cuenta corriente.
type EntidadService interface {
	Crear(ctx context.Context, req dto.CrearEntidadRequest) (*dto.EntidadResponse, error)
	PorID(ctx context.Context, id uuid.UUID) (*dto.EntidadResponse, error)
	List(ctx context.Context, filter dto.EntidadFilter) (*dto.EntidadListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntidadRequest) (*dto.EntidadResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type entidadService struct {
	repo repository.EntidadRepository
}

func NewEntidadService(repo repository.EntidadRepository) EntidadService {
	return &entidadService{repo: repo}
}

func (s *entidadService) Crear(ctx context.Context, req dto.CrearEntidadRequest) (*dto.EntidadResponse, error) {
	if req.CUIT != nil && *req.CUIT != "" {
		if _, err := s.repo.FindByCUIT(ctx, *req.CUIT); err == nil {
			return nil, ErrCUITDuplicado
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	e := &model.Entidad{
		RazonSocial: req.RazonSocial,
		CUIT:        req.CUIT,
		Tipo:        req.Tipo,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return entidadToResponse(e), nil
}

func (s *entidadService) PorID(ctx context.Context, id uuid.UUID) (*dto.EntidadResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEntidadNoEncontrada
	}
	return entidadToResponse(e), nil
}

func (s *entidadService) List(ctx context.Context, filter dto.EntidadFilter) (*dto.EntidadListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entidades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.EntidadListResponse{
		Data:  make([]dto.EntidadResponse, 0, len(entidades)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entidades {
		resp.Data = append(resp.Data, *entidadToResponse(&entidades[i]))
	}
	return resp, nil
}

func (s *entidadService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntidadRequest) (*dto.EntidadResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEntidadNoEncontrada
	}
	if req.CUIT != nil && *req.CUIT != "" && (e.CUIT == nil || *e.CUIT != *req.CUIT) {
		if otro, err := s.repo.FindByCUIT(ctx, *req.CUIT); err == nil && otro.ID != id {
			return nil, ErrCUITDuplicado
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		e.CUIT = req.CUIT
	}
	if req.RazonSocial != "" {
		e.RazonSocial = req.RazonSocial
	}
	if req.Telefono != nil {
		e.Telefono = req.Telefono
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.Direccion != nil {
		e.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return entidadToResponse(e), nil
}

func (s *entidadService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrEntidadNoEncontrada
	}
	return s.repo.SoftDelete(ctx, id)
}

func entidadToResponse(e *model.Entidad) *dto.EntidadResponse {
	return &dto.EntidadResponse{
		ID:          e.ID.String(),
		RazonSocial: e.RazonSocial,
		CUIT:        e.CUIT,
		Tipo:        e.Tipo,
		Telefono:    e.Telefono,
		Email:       e.Email,
		Direccion:   e.Direccion,
		Activo:      e.Activo,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
