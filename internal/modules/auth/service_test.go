package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 101 // simulate DB insert
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func newTestService(users *mockUserRepo, tokens *mockTokens) *Service {
	s := NewService(users, tokens, time.Hour)
	s.hashCost = bcrypt.MinCost
	return s
}

func hashed(t *testing.T, pw string) string {
	h, err := HashPassword(pw, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestService_Register_Success(t *testing.T) {
	users, tokens := new(mockUserRepo), new(mockTokens)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "jane@example.com" && u.Role == domain.RoleGuest &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")) == nil
	})).Return(nil)
	tokens.On("GenerateToken", int64(101), "GUEST").Return("tok", nil)

	res, err := newTestService(users, tokens).Register(context.Background(), RegisterRequest{
		Name: "Jane", Email: " Jane@Example.com", Password: "supersecret",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, domain.RoleGuest, res.User.Role)
	users.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	users, tokens := new(mockUserRepo), new(mockTokens)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := newTestService(users, tokens).Register(context.Background(), RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "supersecret",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	users, tokens := new(mockUserRepo), new(mockTokens)
	u := &domain.User{ID: 5, Email: "staff@example.com", PasswordHash: hashed(t, "correct-horse"), Role: domain.RoleStaff}
	users.On("GetByEmail", mock.Anything, "staff@example.com").Return(u, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)
	tokens.On("GenerateToken", int64(5), "STAFF").Return("tok", nil)
	svc := newTestService(users, tokens)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "staff@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "staff@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Me_DeletedUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{ID: 9, IsDeleted: true}, nil)

	_, err := newTestService(users, new(mockTokens)).Me(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, Name: "Old", Phone: "1"}, nil)
	users.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil)

	name := "  New Name "
	u, err := newTestService(users, new(mockTokens)).UpdateProfile(context.Background(), 3, UpdateProfileRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	assert.Equal(t, "1", u.Phone, "omitted fields are kept")
}

func TestService_ChangePassword(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, PasswordHash: hashed(t, "old-password")}, nil)
	users.On("UpdatePassword", mock.Anything, int64(3), mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("new-password")) == nil
	})).Return(nil)
	svc := newTestService(users, new(mockTokens))

	err := svc.ChangePassword(context.Background(), 3, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), 3, ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"})
	require.NoError(t, err)
	users.AssertExpectations(t)
}
