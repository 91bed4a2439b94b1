package service

import (
	"context"
	"testing"

	"github.com/breightend/Mykonos-os-sub001/internal/config"
	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

// sembrar hashes with MinCost to keep the suite fast.
func (r *stubUsuarioRepo) sembrar(username, password, rol string, activo bool) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       "Usuario Test",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       activo,
	}
	r.usuarios[u.ID] = u
	return u
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func nuevoAuthParaTest() (AuthService, *stubUsuarioRepo, *config.Config) {
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    72,
	}
	return NewAuthService(repo, cfg), repo, cfg
}

func TestLoginEmiteTokensFirmados(t *testing.T) {
	svc, repo, cfg := nuevoAuthParaTest()
	user := repo.sembrar("vendedor1", "clave123", "vendedor", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor1", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, user.ID.String(), resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, "vendedor", claims["rol"])
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	repo.sembrar("vendedor1", "clave123", "vendedor", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor1", Password: "otra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestLoginUsuarioInactivoRechazado(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	repo.sembrar("baja", "clave123", "vendedor", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "baja", Password: "clave123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestLoginUsuarioInexistente(t *testing.T) {
	svc, _, _ := nuevoAuthParaTest()

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestRefreshRenuevaAmbosTokens(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	repo.sembrar("admin1", "clave123", "administrador", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "clave123"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.NotEmpty(t, renovado.RefreshToken)
	assert.Equal(t, login.User.ID, renovado.User.ID)
}

func TestRefreshTokenAjenoRechazado(t *testing.T) {
	svc, _, _ := nuevoAuthParaTest()

	otro := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.NewString()})
	firmado, err := otro.SignedString([]byte("otro-secreto"))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), firmado)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token invalido")
}

func TestRefreshDeUsuarioDesactivado(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	user := repo.sembrar("admin1", "clave123", "administrador", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "clave123"})
	require.NoError(t, err)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), user.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestCrearUsuarioHasheaLaPassword(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "deposito1",
		Nombre:   "Encargado Depósito",
		Password: "clave123",
		Rol:      "deposito",
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)

	guardado, err := repo.FindByUsername(context.Background(), "deposito1")
	require.NoError(t, err)
	assert.NotEqual(t, "clave123", guardado.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("clave123")))
}

func TestListarUsuariosFiltraInactivosPorDefecto(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	repo.sembrar("activo1", "clave123", "vendedor", true)
	repo.sembrar("baja1", "clave123", "vendedor", false)

	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestActualizarUsuarioCambiaRolYPassword(t *testing.T) {
	svc, repo, _ := nuevoAuthParaTest()
	user := repo.sembrar("vendedor1", "clave123", "vendedor", true)

	_, err := svc.ActualizarUsuario(context.Background(), user.ID, dto.ActualizarUsuarioRequest{
		Rol:      "administrador",
		Password: "nueva456",
	})
	require.NoError(t, err)

	guardado, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "administrador", guardado.Rol)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("nueva456")))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor1", Password: "nueva456"})
	assert.NoError(t, err)
}
