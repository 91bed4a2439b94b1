package service

import (
	"context"
	"errors"

	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"
)

// AtributoService administra talles y colores. Sus códigos numéricos
// cortos se asignan al crearlos y alimentan los códigos de variante.
type AtributoService interface {
	CrearTalle(ctx context.Context, nombre string) (*model.Talle, error)
	CrearColor(ctx context.Context, nombre string, hex *string) (*model.Color, error)
	ListTalles(ctx context.Context) ([]model.Talle, error)
	ListColores(ctx context.Context) ([]model.Color, error)
}

type atributoService struct {
	repo repository.AtributoRepository
}

func NewAtributoService(repo repository.AtributoRepository) AtributoService {
	return &atributoService{repo: repo}
}

func (s *atributoService) CrearTalle(ctx context.Context, nombre string) (*model.Talle, error) {
	if nombre == "" {
		return nil, errors.New("el nombre es obligatorio")
	}
	t := &model.Talle{Nombre: nombre}
	if err := s.repo.CreateTalle(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *atributoService) CrearColor(ctx context.Context, nombre string, hex *string) (*model.Color, error) {
	if nombre == "" {
		return nil, errors.New("el nombre es obligatorio")
	}
	c := &model.Color{Nombre: nombre, Hex: hex}
	if err := s.repo.CreateColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *atributoService) ListTalles(ctx context.Context) ([]model.Talle, error) {
	return s.repo.ListTalles(ctx)
}

func (s *atributoService) ListColores(ctx context.Context) ([]model.Color, error) {
	return s.repo.ListColores(ctx)
}
