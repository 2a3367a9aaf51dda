package authenticating

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{SecretKey: "test-secret-key"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func assertAuthCode(t *testing.T, err error, code string) {
	t.Helper()

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "esperava AuthError, veio %v", err)
	assert.Equal(t, code, authErr.Code)
}

func TestService_LoginUser(t *testing.T) {
	t.Run("Login válido emite token verificável", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{
				ID:           42,
				Name:         "Maria",
				Lastname:     "Silva",
				Email:        "maria@grafica.local",
				PasswordHash: hashPassword(t, "secret123"),
				Active:       true,
				RoleID:       domain.RoleSeller,
			}, nil)

		token, err := service.LoginUser("maria@grafica.local", "secret123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)
		assert.Equal(t, domain.RoleSeller, claims.UserRoleID)
		assert.Equal(t, "maria@grafica.local", claims.UserEmail)
	})

	t.Run("Email é normalizado antes da consulta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{
				ID:           42,
				PasswordHash: hashPassword(t, "secret123"),
				Active:       true,
				RoleID:       domain.RoleSeller,
			}, nil)

		_, err := service.LoginUser("  Maria@Grafica.LOCAL ", "secret123")
		assert.NoError(t, err)
	})

	t.Run("Senha incorreta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{
				ID:           42,
				PasswordHash: hashPassword(t, "secret123"),
				Active:       true,
			}, nil)

		_, err := service.LoginUser("maria@grafica.local", "wrong")
		assertAuthCode(t, err, apiErrors.ErrInvalidCredentials)
	})

	t.Run("Conta desativada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{ID: 42, Active: false}, nil)

		_, err := service.LoginUser("maria@grafica.local", "secret123")
		assertAuthCode(t, err, apiErrors.ErrUserDisabled)
	})

	t.Run("Usuário inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().GetUserByEmail("ghost@grafica.local").Return(nil, nil)

		_, err := service.LoginUser("ghost@grafica.local", "secret123")
		assertAuthCode(t, err, apiErrors.ErrUserNotFound)
	})

	t.Run("Campos obrigatórios", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		_, err := service.LoginUser("", "")
		assertAuthCode(t, err, apiErrors.ErrMissingRequiredData)
	})
}

func TestService_ValidateToken(t *testing.T) {
	t.Run("Token adulterado é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		_, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Token assinado com outra chave é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)

		otherService := NewService(mockRepo, &config.Config{SecretKey: "other-key"})
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{
				ID:           42,
				PasswordHash: hashPassword(t, "secret123"),
				Active:       true,
				RoleID:       domain.RoleSeller,
			}, nil)

		token, err := otherService.LoginUser("maria@grafica.local", "secret123")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestService_CreateUser(t *testing.T) {
	t.Run("Cadastro sem role entra como cliente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().GetUserByEmail("novo@grafica.local").Return(nil, nil)

		// Cópia do que chegou ao repositório: o service limpa o hash da
		// resposta depois, e o ponteiro original é o mesmo
		var saved domain.User
		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user *domain.User) (*domain.User, error) {
				saved = *user
				user.ID = 10
				return user, nil
			})

		created, err := service.CreateUser(&domain.User{
			Name:         "Novo",
			Lastname:     "Usuário",
			Email:        "Novo@Grafica.LOCAL",
			PasswordHash: "secret123",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.RoleClient, saved.RoleID)
		assert.True(t, saved.Active)
		assert.Equal(t, "novo@grafica.local", saved.Email)
		assert.NotNil(t, saved.JoinedAt)

		// A senha nunca sai em claro nem volta na resposta
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret123")))
		assert.Empty(t, created.PasswordHash)
	})

	t.Run("Email duplicado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByEmail("maria@grafica.local").
			Return(&domain.User{ID: 42}, nil)

		_, err := service.CreateUser(&domain.User{
			Name:         "Maria",
			Lastname:     "Silva",
			Email:        "maria@grafica.local",
			PasswordHash: "secret123",
		})
		assertAuthCode(t, err, apiErrors.ErrUserAlreadyExists)
	})

	t.Run("Dados obrigatórios ausentes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		_, err := service.CreateUser(&domain.User{Name: "Sem Email"})
		assertAuthCode(t, err, apiErrors.ErrMissingRequiredData)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("Troca válida grava novo hash", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByID(42).
			Return(&domain.User{ID: 42, PasswordHash: hashPassword(t, "old-pass")}, nil)

		var saved *domain.User
		mockRepo.EXPECT().
			UpdateUser(gomock.Any()).
			DoAndReturn(func(user *domain.User) error {
				saved = user
				return nil
			})

		require.NoError(t, service.ChangePassword(42, "old-pass", "new-pass"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("new-pass")))
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		mockRepo.EXPECT().
			GetUserByID(42).
			Return(&domain.User{ID: 42, PasswordHash: hashPassword(t, "old-pass")}, nil)

		err := service.ChangePassword(42, "wrong", "new-pass")
		assertAuthCode(t, err, apiErrors.ErrInvalidCredentials)
	})

	t.Run("Nova senha igual à atual", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		service := NewService(mockRepo, testConfig())

		err := service.ChangePassword(42, "same", "same")
		assertAuthCode(t, err, apiErrors.ErrInvalidRequest)
	})
}
