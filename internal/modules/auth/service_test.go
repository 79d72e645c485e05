package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"atlas/internal/domain"
	"atlas/internal/repository"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestRegister_DefaultsToGeneralRole(t *testing.T) {
	users := new(MockUserStore)
	tokens := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	tokens.On("GenerateToken", int64(42), "general").Return("tok", nil)

	svc := NewService(users, tokens)

	out, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "New@Example.com ",
		Password:  "supersecret",
		FirstName: "Ada",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleGeneral, out.User.Role)
	assert.True(t, out.User.IsActive)
	assert.Equal(t, "new@example.com", out.User.Email, "email is normalized")
	assert.Equal(t, "tok", out.Token)
	assert.NotEqual(t, "supersecret", out.User.PasswordHash)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&domain.User{ID: 1, Email: "taken@example.com"}, nil)

	svc := NewService(users, new(MockTokenIssuer))

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "taken@example.com",
		Password:  "supersecret",
		FirstName: "Ada",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserStore)
	tokens := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{
		ID:           7,
		Email:        "ada@example.com",
		PasswordHash: hashOf(t, "correct-horse"),
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}, nil)
	tokens.On("GenerateToken", int64(7), "employee").Return("tok", nil)

	svc := NewService(users, tokens)

	out, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
	assert.Equal(t, "tok", out.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(&domain.User{
		ID:           7,
		PasswordHash: hashOf(t, "correct-horse"),
		IsActive:     true,
	}, nil)

	svc := NewService(users, new(MockTokenIssuer))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	svc := NewService(users, new(MockTokenIssuer))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByEmail", mock.Anything, "off@example.com").Return(&domain.User{
		ID:           8,
		PasswordHash: hashOf(t, "correct-horse"),
		IsActive:     false,
	}, nil)

	svc := NewService(users, new(MockTokenIssuer))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "off@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestMe_IncludesCapabilities(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{
		ID:   7,
		Role: domain.RoleAdmin,
	}, nil)

	svc := NewService(users, new(MockTokenIssuer))

	out, err := svc.Me(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, out.Capabilities.ManageRoles)
	assert.True(t, out.Capabilities.ManageWorkspaces)
}
