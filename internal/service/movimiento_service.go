package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/google/uuid"
)

type MovimientoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	List(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type movimientoService struct {
	repo       repository.MovimientoRepository
	cuentaRepo repository.CuentaRepository
	caja       CajaService
}

func NewMovimientoService(
	repo repository.MovimientoRepository,
	cuentaRepo repository.CuentaRepository,
	caja CajaService,
) MovimientoService {
	return &movimientoService{repo: repo, cuentaRepo: cuentaRepo, caja: caja}
}

// Registrar records an expense or income entry. Defaults: tipo=gasto,
// estado=pagado, ambito=negocio, fecha=hoy. When the movimiento points at a
// cuenta, the ambito is inherited from the account so a personal account can
// never receive business entries (and vice versa).
func (s *movimientoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	tipo := req.Tipo
	if tipo == "" {
		tipo = "gasto"
	}
	estado := req.Estado
	if estado == "" {
		estado = "pagado"
	}
	ambito := req.Ambito
	if ambito == "" {
		ambito = "negocio"
	}

	fecha := time.Now()
	if req.Fecha != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Fecha, time.Local)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		fecha = parsed
	}

	var cuentaID *uuid.UUID
	if req.CuentaID != nil {
		id, err := uuid.Parse(*req.CuentaID)
		if err != nil {
			return nil, fmt.Errorf("cuenta_id inválido: %w", err)
		}
		cuenta, err := s.cuentaRepo.FindByID(ctx, id)
		if err != nil {
			return nil, errors.New("cuenta no encontrada")
		}
		if !cuenta.Activa {
			return nil, fmt.Errorf("la cuenta %s está desactivada", cuenta.Nombre)
		}
		if req.Ambito != "" && req.Ambito != cuenta.Ambito {
			return nil, fmt.Errorf("el ámbito %q no coincide con el de la cuenta %s (%s)", req.Ambito, cuenta.Nombre, cuenta.Ambito)
		}
		ambito = cuenta.Ambito
		cuentaID = &id
	}

	// Business movimientos during an open session get attached to it so the
	// session summary reports them alongside sales, whatever the payment
	// method. Personal-ledger entries never belong to the register.
	var sesionID *uuid.UUID
	if ambito == "negocio" {
		sesion, err := s.caja.SesionAbierta(ctx)
		if err != nil {
			return nil, err
		}
		if sesion != nil {
			sesionID = &sesion.ID
		}
	}

	mov := model.Movimiento{
		Tipo:         tipo,
		Categoria:    req.Categoria,
		Concepto:     req.Concepto,
		Proveedor:    req.Proveedor,
		Monto:        req.Monto,
		MetodoPago:   req.MetodoPago,
		Estado:       estado,
		Ambito:       ambito,
		CuentaID:     cuentaID,
		SesionCajaID: sesionID,
		Fecha:        fecha,
		UsuarioID:    usuarioID,
	}
	if err := s.repo.Create(ctx, &mov); err != nil {
		return nil, err
	}
	return movimientoToResponse(&mov), nil
}

func (s *movimientoService) List(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, *movimientoToResponse(&m))
	}
	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movimientoToResponse(m *model.Movimiento) *dto.MovimientoResponse {
	var cuentaID, sesionID *string
	if m.CuentaID != nil {
		id := m.CuentaID.String()
		cuentaID = &id
	}
	if m.SesionCajaID != nil {
		id := m.SesionCajaID.String()
		sesionID = &id
	}
	return &dto.MovimientoResponse{
		ID:           m.ID.String(),
		Tipo:         m.Tipo,
		Categoria:    m.Categoria,
		Concepto:     m.Concepto,
		Proveedor:    m.Proveedor,
		Monto:        m.Monto,
		MetodoPago:   m.MetodoPago,
		Estado:       m.Estado,
		Ambito:       m.Ambito,
		CuentaID:     cuentaID,
		SesionCajaID: sesionID,
		Fecha:        m.Fecha.Format("2006-01-02"),
	}
}
