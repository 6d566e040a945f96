package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportilla/tiendas-api/internal/application/auth"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func buildAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(newFakeUserRepo(), auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "tiendas-api-test",
	})
}

func TestRegisterUser(t *testing.T) {
	uc := buildAuth()

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@example.com", Password: "supersegura", Name: "Ana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, "Ana", out.Name)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := buildAuth()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "supersegura"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "otraclave123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc := buildAuth()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "supersegura"})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "supersegura"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@example.com", out.User.Email)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := buildAuth()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "supersegura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := buildAuth()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "loquesea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
