package service

import (
	"context"
	"errors"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/google/uuid"
)

type CuentaService interface {
	Crear(ctx context.Context, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error)
	Listar(ctx context.Context) ([]dto.CuentaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCuentaRequest) (*dto.CuentaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type cuentaService struct {
	repo repository.CuentaRepository
}

func NewCuentaService(repo repository.CuentaRepository) CuentaService {
	return &cuentaService{repo: repo}
}

func (s *cuentaService) Crear(ctx context.Context, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error) {
	c := model.Cuenta{Nombre: req.Nombre, Ambito: req.Ambito, Activa: true}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return cuentaToResponse(&c), nil
}

func (s *cuentaService) Listar(ctx context.Context) ([]dto.CuentaResponse, error) {
	cuentas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CuentaResponse, 0, len(cuentas))
	for _, c := range cuentas {
		out = append(out, *cuentaToResponse(&c))
	}
	return out, nil
}

func (s *cuentaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCuentaRequest) (*dto.CuentaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cuenta no encontrada")
	}
	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Ambito != "" {
		c.Ambito = req.Ambito
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return cuentaToResponse(c), nil
}

func (s *cuentaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func cuentaToResponse(c *model.Cuenta) *dto.CuentaResponse {
	return &dto.CuentaResponse{
		ID:     c.ID.String(),
		Nombre: c.Nombre,
		Ambito: c.Ambito,
		Activa: c.Activa,
	}
}
