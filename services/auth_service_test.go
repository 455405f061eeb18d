package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/repository"
)

func newAuthServiceForTest() (*AuthService, *mockUserRepo) {
	users := new(mockUserRepo)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(users, tokens), users
}

func TestSignupCustomer(t *testing.T) {
	svc, users := newAuthServiceForTest()
	cityID := uint(5)

	users.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil)

	resp, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:     "9876543210",
		Password:  "secret123",
		FirstName: "Asha",
		Role:      models.RoleCustomer,
		CityID:    &cityID,
	})
	require.Nil(t, serviceErr)
	assert.Equal(t, cityID, resp.CityID)
	assert.NotEqual(t, uuid.Nil, resp.UserID)

	created := users.Calls[0].Arguments.Get(1).(*models.User)
	assert.Equal(t, models.RoleCustomer, created.Role)
	assert.True(t, created.Active)
	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
}

func TestSignupStaffWithNewStore(t *testing.T) {
	svc, users := newAuthServiceForTest()

	users.On("CreateStaffWithStore", mock.Anything, mock.Anything, "Chennai", "Chennai dark store", "1 Beach Rd").
		Return(uint(9), nil)

	resp, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:          "9876543210",
		Password:       "secret123",
		FirstName:      "Ravi",
		Role:           models.RoleInventoryStaff,
		CreateNewStore: true,
		StoreCity:      "Chennai",
		StoreAddress:   "1 Beach Rd",
	})
	require.Nil(t, serviceErr)
	assert.Equal(t, uint(9), resp.CityID)
}

func TestSignupStoreRequiresCityAndAddress(t *testing.T) {
	svc, users := newAuthServiceForTest()

	_, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:          "9876543210",
		Password:       "secret123",
		FirstName:      "Ravi",
		Role:           models.RoleInventoryStaff,
		CreateNewStore: true,
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	users.AssertNotCalled(t, "CreateStaffWithStore",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupPartnerStartsInactive(t *testing.T) {
	svc, users := newAuthServiceForTest()
	cityID := uint(2)

	users.On("CreatePartner", mock.Anything, mock.Anything).Return(nil)

	_, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:     "9876543210",
		Password:  "secret123",
		FirstName: "Kumar",
		Role:      models.RoleDeliveryPartner,
		CityID:    &cityID,
	})
	require.Nil(t, serviceErr)
	users.AssertCalled(t, "CreatePartner", mock.Anything, mock.Anything)
}

func TestSignupDuplicatePhone(t *testing.T) {
	svc, users := newAuthServiceForTest()
	cityID := uint(2)

	users.On("CreateCustomer", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicatePhone)

	_, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:     "9876543210",
		Password:  "secret123",
		FirstName: "Asha",
		Role:      models.RoleCustomer,
		CityID:    &cityID,
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusConflict, serviceErr.StatusCode)
}

func TestSignupInvalidRole(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:     "9876543210",
		Password:  "secret123",
		FirstName: "Asha",
		Role:      "SUPERADMIN",
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
}

func TestSignupRequiresCityForCustomer(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, serviceErr := svc.Signup(context.Background(), &SignupRequest{
		Phone:     "9876543210",
		Password:  "secret123",
		FirstName: "Asha",
		Role:      models.RoleCustomer,
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
}

func TestLoginSuccess(t *testing.T) {
	svc, users := newAuthServiceForTest()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New(),
		Phone:    "9876543210",
		Password: string(hashed),
		Role:     models.RoleCustomer,
		CityID:   4,
		Active:   true,
	}
	users.On("FindByIdentifier", mock.Anything, "9876543210").Return(user, nil)

	resp, serviceErr := svc.Login(context.Background(), &LoginRequest{
		Username: "9876543210",
		Password: "secret123",
	})
	require.Nil(t, serviceErr)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCustomer, resp.Role)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, uint(4), resp.CityID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users := newAuthServiceForTest()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("FindByIdentifier", mock.Anything, "9876543210").
		Return(&models.User{Password: string(hashed), Active: true}, nil)

	_, serviceErr := svc.Login(context.Background(), &LoginRequest{
		Username: "9876543210",
		Password: "wrong",
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusUnauthorized, serviceErr.StatusCode)
	assert.Equal(t, "Invalid credentials", serviceErr.Message)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, users := newAuthServiceForTest()

	users.On("FindByIdentifier", mock.Anything, "nobody").
		Return(nil, repository.ErrUserNotFound)

	_, serviceErr := svc.Login(context.Background(), &LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusUnauthorized, serviceErr.StatusCode)
	// Same message as a wrong password so the response does not leak
	// which accounts exist.
	assert.Equal(t, "Invalid credentials", serviceErr.Message)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users := newAuthServiceForTest()

	users.On("FindByIdentifier", mock.Anything, "9876543210").
		Return(&models.User{Active: false}, nil)

	_, serviceErr := svc.Login(context.Background(), &LoginRequest{
		Username: "9876543210",
		Password: "secret123",
	})
	require.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusUnauthorized, serviceErr.StatusCode)
}
