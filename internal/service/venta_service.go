package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Prices are ITBIS-inclusive; the 18% tax is backed out of the gross
// (bruto / 1.18), never added on top of a tax-exclusive price.
var (
	itbisDivisor = decimal.NewFromFloat(1.18)
	cien         = decimal.NewFromInt(100)
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ActualizarCliente(ctx context.Context, id uuid.UUID, cliente string) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	caja         CajaService
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	caja CajaService,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		caja:         caja,
		dispatcher:   dispatcher,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Resolve items pre-flight (product lookups outside the TX)
//   2. Compute bruto, back out ITBIS, apply discount
//   3. BEGIN TX: nextval factura, create venta + items, descontar stock
//   4. COMMIT
//   5. (async) enqueue invoice PDF job
//
// Venta libre items (no producto_id) never touch stock. The conditional stock
// decrement rolls the whole sale back when any item lacks stock.

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	estado := req.Estado
	if estado == "" {
		estado = "pagada"
	}

	type resolvedItem struct {
		productoID  *uuid.UUID
		descripcion string
		precio      decimal.Decimal
		cantidad    int
		importe     decimal.Decimal
	}

	var resolved []resolvedItem
	bruto := decimal.Zero

	for _, item := range req.Items {
		if item.ProductoID == "" {
			// Venta libre — needs its own description and price
			if item.Descripcion == "" {
				return nil, errors.New("una venta libre requiere descripción")
			}
			if !item.PrecioUnitario.IsPositive() {
				return nil, errors.New("una venta libre requiere precio unitario mayor a cero")
			}
			importe := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
			bruto = bruto.Add(importe)
			resolved = append(resolved, resolvedItem{
				descripcion: item.Descripcion,
				precio:      item.PrecioUnitario,
				cantidad:    item.Cantidad,
				importe:     importe,
			})
			continue
		}

		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		importe := p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		bruto = bruto.Add(importe)
		resolved = append(resolved, resolvedItem{
			productoID:  &pid,
			descripcion: p.Nombre,
			precio:      p.Precio,
			cantidad:    item.Cantidad,
			importe:     importe,
		})
	}

	// Discount on the ITBIS-inclusive gross
	descuento := decimal.Zero
	if req.Descuento.IsPositive() {
		switch req.TipoDescuento {
		case "porcentaje":
			if req.Descuento.GreaterThan(cien) {
				return nil, errors.New("el descuento porcentual no puede superar 100")
			}
			descuento = bruto.Mul(req.Descuento).Div(cien).Round(2)
		default: // "fijo"
			descuento = req.Descuento
		}
		if descuento.GreaterThan(bruto) {
			return nil, errors.New("el descuento no puede superar el total")
		}
	}

	// Backward tax: the base is backed out of the pre-discount gross
	subtotal := bruto.Div(itbisDivisor).Round(2)
	itbis := bruto.Sub(subtotal)
	total := bruto.Sub(descuento)

	// Attach the open session, if any. Orphan sales (no session) fall into
	// the daily midnight window for summary purposes.
	var sesionID *uuid.UUID
	sesion, err := s.caja.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if sesion != nil {
		sesionID = &sesion.ID
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.repo.NextNumeroFactura(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroFactura: fmt.Sprintf("FACT-%d-%06d", time.Now().Year(), seq),
			ClienteNombre: req.Cliente,
			Subtotal:      subtotal,
			ITBIS:         itbis,
			Descuento:     descuento,
			Total:         total,
			MetodoPago:    req.MetodoPago,
			Estado:        estado,
			SesionCajaID:  sesionID,
			UsuarioID:     usuarioID,
			CreatedAt:     time.Now(),
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Descripcion:    r.descripcion,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Importe:        r.importe,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// Descontar stock — only inventory-backed items
		for _, r := range resolved {
			if r.productoID == nil {
				continue
			}
			if err := s.productoRepo.DescontarStockTx(tx, *r.productoID, r.cantidad); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return fmt.Errorf("stock insuficiente para %s", r.descripcion)
				}
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async invoice PDF (best-effort — fire & forget)
	if s.dispatcher != nil {
		payload := worker.FacturaJobPayload{VentaID: venta.ID.String()}
		if req.ClienteEmail != nil {
			payload.ClienteEmail = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueFactura(ctx, payload)
	}

	return ventaToResponse(&venta), nil
}

// ── ActualizarCliente ─────────────────────────────────────────────────────────
// Cosmetic rename of the customer on an existing sale. This is the only
// mutation a paid sale accepts.

func (s *ventaService) ActualizarCliente(ctx context.Context, id uuid.UUID, cliente string) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	if err := s.repo.UpdateClienteNombre(ctx, id, cliente); err != nil {
		return nil, err
	}
	venta.ClienteNombre = &cliente
	return ventaToResponse(venta), nil
}

// ListVentas returns a paginated list of sales, filtered by date and estado.
// Default filter: today's paid sales.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "pagada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		items = append(items, *ventaToResponse(&v))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			Producto:       item.Descripcion,
			VentaLibre:     item.ProductoID == nil,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Importe:        item.Importe,
		})
	}
	var sesionID *string
	if v.SesionCajaID != nil {
		id := v.SesionCajaID.String()
		sesionID = &id
	}
	return &dto.VentaResponse{
		ID:            v.ID.String(),
		NumeroFactura: v.NumeroFactura,
		Cliente:       v.ClienteNombre,
		Items:         items,
		Subtotal:      v.Subtotal,
		ITBIS:         v.ITBIS,
		Descuento:     v.Descuento,
		Total:         v.Total,
		MetodoPago:    v.MetodoPago,
		Estado:        v.Estado,
		SesionCajaID:  sesionID,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
