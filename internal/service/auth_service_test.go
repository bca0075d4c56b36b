package service_test

import (
	"context"
	"testing"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/config"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok || !u.Activo {
		return nil, apierror.New(apierror.KindUnauthorized, "Credenciales inválidas")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apierror.New(apierror.KindNotFound, "Usuario no encontrado")
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) List(_ context.Context, empresaID uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.EmpresaID == empresaID {
			out = append(out, *u)
		}
	}
	return out, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newAuthFixture(t *testing.T) (*stubUsuarioRepo, service.AuthService) {
	t.Helper()
	repo := newStubUsuarioRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	_ = repo.Create(context.Background(), &model.Usuario{
		EmpresaID:      empresaID,
		Username:       "operador1",
		NombreCompleto: "Operador Uno",
		PasswordHash:   string(hash),
		Rol:            "despachador",
		Activo:         true,
	})
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8, JWTRefreshHours: 72}
	return repo, service.NewAuthService(repo, cfg)
}

func TestLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operador1", Password: "secreto123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "operador1", resp.User.Username)
	assert.Equal(t, "despachador", resp.User.Rol)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operador1", Password: "otra"})
	assert.True(t, apierror.IsKind(err, apierror.KindUnauthorized), "got %v", err)
}

func TestLoginUsuarioInexistente(t *testing.T) {
	_, svc := newAuthFixture(t)

	// Same response as a bad password: the caller cannot enumerate users
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.True(t, apierror.IsKind(err, apierror.KindUnauthorized), "got %v", err)
}

func TestRefresh(t *testing.T) {
	_, svc := newAuthFixture(t)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operador1", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "operador1", resp.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.True(t, apierror.IsKind(err, apierror.KindUnauthorized), "got %v", err)
}

func TestRefreshUsuarioDesactivado(t *testing.T) {
	repo, svc := newAuthFixture(t)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "operador1", Password: "secreto123"})
	require.NoError(t, err)

	repo.usuarios["operador1"].Activo = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.True(t, apierror.IsKind(err, apierror.KindUnauthorized), "got %v", err)
}

func TestCrearUsuarioRestringidoASucursal(t *testing.T) {
	repo, svc := newAuthFixture(t)
	sid := sucursalID.String()

	resp, err := svc.CrearUsuario(context.Background(), empresaID, dto.CrearUsuarioRequest{
		Username:   "supervisor1",
		Nombre:     "Supervisor Uno",
		Password:   "clave-larga",
		Rol:        "supervisor",
		SucursalID: &sid,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.SucursalID)
	assert.Equal(t, sid, *resp.SucursalID)

	creado := repo.usuarios["supervisor1"]
	require.NotNil(t, creado)
	assert.NotEqual(t, "clave-larga", creado.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creado.PasswordHash), []byte("clave-larga")))
}
