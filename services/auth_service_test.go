package services

import (
	"context"
	"testing"
	"time"

	"storefront-api/models"
	"storefront-api/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks for Dependencies ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) GenerateAccessToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	args := m.Called(tokenStr, expectedType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(jwt.MapClaims), args.Error(1)
}

// --- Tests ---

func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokenService := new(MockTokenService)
	authService := NewAuthService(mockRepo, mockTokenService)
	ctx := context.Background()

	password := "Secret1!"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("FindByEmail", ctx, testUser.Email).Return(testUser, nil).Once()
		mockTokenService.On("GenerateAccessToken", testUser.ID.Hex(), testUser.Email).Return("access", nil).Once()

		token, err := authService.Login(ctx, testUser.Email, password)

		assert.NoError(t, err)
		assert.Equal(t, "access", token)
		mockRepo.AssertExpectations(t)
		mockTokenService.AssertExpectations(t)
	})

	t.Run("User Not Found", func(t *testing.T) {
		mockRepo.On("FindByEmail", ctx, "notfound@example.com").Return(nil, repository.ErrNotFound).Once()

		_, err := authService.Login(ctx, "notfound@example.com", password)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Incorrect Password", func(t *testing.T) {
		mockRepo.On("FindByEmail", ctx, testUser.Email).Return(testUser, nil).Once()

		_, err := authService.Login(ctx, testUser.Email, "Wrong1!")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, new(MockTokenService))
		mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(nil, repository.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "ada@example.com" && bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("Secret1!")) == nil
		})).Return(nil).Once()

		user, err := authService.Register(ctx, "Ada", "Ada@Example.com", "Secret1!")

		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Email Taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, new(MockTokenService))
		mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(&models.User{}, nil).Once()

		_, err := authService.Register(ctx, "Ada", "ada@example.com", "Secret1!")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate On Insert", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, new(MockTokenService))
		mockRepo.On("FindByEmail", ctx, "ada@example.com").Return(nil, repository.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := authService.Register(ctx, "Ada", "ada@example.com", "Secret1!")

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("Invalid Email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := NewAuthService(mockRepo, new(MockTokenService))

		_, err := authService.Register(ctx, "Ada", "not-an-email", "Secret1!")

		assert.ErrorIs(t, err, ErrInvalidEmail)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Weak Password", func(t *testing.T) {
		authService := NewAuthService(new(MockUserRepository), new(MockTokenService))

		_, err := authService.Register(ctx, "Ada", "ada@example.com", "secret1!")

		assert.ErrorIs(t, err, ErrPasswordFirstUpper)
	})
}

func TestPasswordValidator(t *testing.T) {
	pv := NewPasswordValidator()
	tests := []struct {
		password string
		want     error
	}{
		{"Secret1!", nil},
		{"Ab1!", ErrPasswordTooShort},
		{"secret1!", ErrPasswordFirstUpper},
		{"SECRET1!", ErrPasswordNoLower},
		{"Secret!!", ErrPasswordNoNumber},
		{"Secret11", ErrPasswordNoSpecial},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := pv.ValidatePassword(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.True(t, IsPasswordStrong("Hello9$"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a.b+c@shop.example.com"))
	assert.ErrorIs(t, ValidateEmail("a@b"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("@example.com"), ErrInvalidEmail)
}

func TestTokenService(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	userID := primitive.NewObjectID().Hex()

	token, err := ts.GenerateAccessToken(userID, "ada@example.com")
	require.NoError(t, err)

	claims, err := ts.ValidateToken(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["sub"])
	assert.Equal(t, "ada@example.com", claims["email"])

	_, err = ts.ValidateToken(token, "refresh")
	assert.Error(t, err)

	_, err = NewTokenService("other-secret", time.Hour).ValidateToken(token, AccessToken)
	assert.Error(t, err)

	expired := NewTokenService("test-secret", time.Hour)
	expired.ttl = -time.Minute
	old, err := expired.GenerateAccessToken(userID, "ada@example.com")
	require.NoError(t, err)
	_, err = ts.ValidateToken(old, AccessToken)
	assert.Error(t, err)
}
