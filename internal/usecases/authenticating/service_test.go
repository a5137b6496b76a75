package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	return NewService(userRepo, &config.Config{SecretKey: "test-secret"}), userRepo
}

func TestService_LoginUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		email        string
		password     string
		setup        func(t *testing.T, repo *mocks.MockUserRepository)
		expectedErr  error
		expectedCode string
	}{
		{
			name:     "Login válido - devolve token com as lojas vinculadas",
			email:    " Ana@Loja.com ",
			password: "Senha@123",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@loja.com").Return(&domain.User{
					ID:           7,
					Email:        "ana@loja.com",
					Active:       true,
					RoleID:       domain.RoleUser,
					PasswordHash: hashPassword(t, "Senha@123"),
					LinkedStores: []string{"Madrid"},
				}, nil)
			},
		},
		{
			name:         "Campos vazios",
			email:        "",
			password:     "",
			setup:        func(t *testing.T, repo *mocks.MockUserRepository) {},
			expectedErr:  ErrMissingRequiredData,
			expectedCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Usuário inexistente",
			email:    "nao@existe.com",
			password: "x",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "nao@existe.com").Return(nil, nil)
			},
			expectedErr:  ErrUserNotFound,
			expectedCode: apiErrors.ErrUserNotFound,
		},
		{
			name:     "Usuário desativado",
			email:    "ana@loja.com",
			password: "Senha@123",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@loja.com").Return(&domain.User{ID: 7, Active: false}, nil)
			},
			expectedErr:  ErrUserDisabled,
			expectedCode: apiErrors.ErrUserDisabled,
		},
		{
			name:     "Senha incorreta",
			email:    "ana@loja.com",
			password: "errada",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@loja.com").Return(&domain.User{
					ID:           7,
					Active:       true,
					PasswordHash: hashPassword(t, "Senha@123"),
				}, nil)
			},
			expectedErr:  ErrInvalidCredentials,
			expectedCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:     "Erro de banco",
			email:    "ana@loja.com",
			password: "Senha@123",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@loja.com").Return(nil, errors.New("db down"))
			},
			expectedCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService(t)
			tt.setup(t, repo)

			token, err := service.LoginUser(ctx, tt.email, tt.password)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, CodeOf(err, ""))
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, 7, claims.UserID)
			assert.Equal(t, []string{"Madrid"}, claims.UserStores)
			assert.True(t, claims.CanAccessCity("madrid"))
			assert.False(t, claims.CanAccessCity("Barcelona"))
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := newTestService(t)

	t.Run("Token expirado", func(t *testing.T) {
		service.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		token, err := service.generateJWT(&domain.User{ID: 1})
		require.NoError(t, err)
		service.now = time.Now

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Equal(t, apiErrors.ErrExpiredToken, CodeOf(err, ""))
	})

	t.Run("Token assinado com outra chave", func(t *testing.T) {
		other := NewService(nil, &config.Config{SecretKey: "outra"})
		token, err := other.generateJWT(&domain.User{ID: 1})
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Lixo", func(t *testing.T) {
		_, err := service.ValidateToken("nao.e.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_ManageUserStores(t *testing.T) {
	service, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().GetUserByID(gomock.Any(), 3).Return(&domain.User{ID: 3}, nil)
	repo.EXPECT().ReplaceUserStores(gomock.Any(), 3, []string{"Madrid", "CDMX"}).Return(nil)

	err := service.ManageUserStores(ctx, 3, []string{"Madrid", " madrid ", "", "CDMX"})
	assert.NoError(t, err)
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Senha nova fraca", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 1).Return(&domain.User{ID: 1, PasswordHash: hashPassword(t, "Atual@123")}, nil)

		err := service.ChangePassword(ctx, 1, "Atual@123", "fraca")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 1).Return(&domain.User{ID: 1, PasswordHash: hashPassword(t, "Atual@123")}, nil)

		err := service.ChangePassword(ctx, 1, "Outra@123", "Nova@1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Troca com sucesso", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 1).Return(&domain.User{ID: 1, PasswordHash: hashPassword(t, "Atual@123")}, nil)
		repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user *domain.User) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Nova@1234")))
			return nil
		})

		err := service.ChangePassword(ctx, 1, "Atual@123", "Nova@1234")
		assert.NoError(t, err)
	})
}

func TestGenerateStrongPassword(t *testing.T) {
	service, _ := newTestService(t)

	for i := 0; i < 20; i++ {
		password, err := generateStrongPassword(12)
		require.NoError(t, err)
		assert.Len(t, password, 12)
		assert.NoError(t, service.ValidatePasswordStrength(password))
	}
}

func TestService_GenerateStrongPassword_RequiresAdmin(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetUserByID(gomock.Any(), 2).Return(&domain.User{ID: 2, RoleID: domain.RoleSupervisor}, nil)

	_, err := service.GenerateStrongPassword(context.Background(), 2, 5)
	assert.ErrorIs(t, err, ErrNoAdminPrivileges)
	assert.Equal(t, apiErrors.ErrInsufficientPrivilege, CodeOf(err, ""))
}
