package service

import (
	"context"
	"testing"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/config"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory UsuarioRepository ──────────────────────────────────────────────

type memUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newMemUsuarioRepo() *memUsuarioRepo {
	return &memUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *memUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *memUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *memUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    168,
	}
}

func TestLoginYRefresh(t *testing.T) {
	repo := newMemUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	_, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "kathy",
		Nombre:   "Kathy",
		Password: "secreta123",
		Rol:      "admin",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "kathy", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.User.Rol)

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	repo := newMemUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	_, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "kathy", Nombre: "Kathy", Password: "secreta123", Rol: "cajero",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "kathy", Password: "otra"})
	require.Error(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "x"})
	require.Error(t, err)
}

func TestLoginUsuarioDesactivado(t *testing.T) {
	repo := newMemUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	creado, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "extemporaneo", Nombre: "Ex", Password: "secreta123", Rol: "cajero",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DesactivarUsuario(ctx, uuid.MustParse(creado.ID)))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "extemporaneo", Password: "secreta123"})
	require.Error(t, err)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc := NewAuthService(newMemUsuarioRepo(), authTestConfig())
	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}

func TestActualizarUsuarioCambiaPassword(t *testing.T) {
	repo := newMemUsuarioRepo()
	svc := NewAuthService(repo, authTestConfig())
	ctx := context.Background()

	creado, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "kathy", Nombre: "Kathy", Password: "secreta123", Rol: "admin",
	})
	require.NoError(t, err)

	_, err = svc.ActualizarUsuario(ctx, uuid.MustParse(creado.ID), dto.ActualizarUsuarioRequest{
		Password: "nueva-clave-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "kathy", Password: "secreta123"})
	require.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "kathy", Password: "nueva-clave-1"})
	require.NoError(t, err)
}
