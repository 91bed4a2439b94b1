package service

import (
	"context"
	"errors"

	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
)

type SucursalService interface {
	Crear(ctx context.Context, nombre, direccion string) (*model.Sucursal, error)
	PorID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	List(ctx context.Context) ([]model.Sucursal, error)
	Actualizar(ctx context.Context, id uuid.UUID, nombre, direccion string) (*model.Sucursal, error)
}

type sucursalService struct {
	repo repository.SucursalRepository
}

func NewSucursalService(repo repository.SucursalRepository) SucursalService {
	return &sucursalService{repo: repo}
}

func (s *sucursalService) Crear(ctx context.Context, nombre, direccion string) (*model.Sucursal, error) {
	if nombre == "" {
		return nil, errors.New("el nombre es obligatorio")
	}
	suc := &model.Sucursal{Nombre: nombre, Activo: true}
	if direccion != "" {
		suc.Direccion = &direccion
	}
	if err := s.repo.Create(ctx, suc); err != nil {
		return nil, err
	}
	return suc, nil
}

func (s *sucursalService) PorID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	return suc, nil
}

func (s *sucursalService) List(ctx context.Context) ([]model.Sucursal, error) {
	return s.repo.List(ctx)
}

func (s *sucursalService) Actualizar(ctx context.Context, id uuid.UUID, nombre, direccion string) (*model.Sucursal, error) {
	suc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	if nombre != "" {
		suc.Nombre = nombre
	}
	if direccion != "" {
		suc.Direccion = &direccion
	}
	if err := s.repo.Update(ctx, suc); err != nil {
		return nil, err
	}
	return suc, nil
}
