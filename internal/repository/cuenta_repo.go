package repository

import (
	"context"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CuentaRepository interface {
	Create(ctx context.Context, c *model.Cuenta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error)
	List(ctx context.Context) ([]model.Cuenta, error)
	Update(ctx context.Context, c *model.Cuenta) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) Create(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cuenta, error) {
	var c model.Cuenta
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuentaRepo) List(ctx context.Context) ([]model.Cuenta, error) {
	var cuentas []model.Cuenta
	err := r.db.WithContext(ctx).Where("activa = true").Order("nombre ASC").Find(&cuentas).Error
	return cuentas, err
}

func (r *cuentaRepo) Update(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cuentaRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cuenta{}).
		Where("id = ?", id).Update("activa", false).Error
}
