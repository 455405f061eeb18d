package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/repository"
)

type SignupRequest struct {
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email"`
	Password       string `json:"password" binding:"required,min=6"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name"`
	Role           string `json:"role" binding:"required"`
	CityID         *uint  `json:"city_id"`
	CreateNewStore bool   `json:"create_new_store"`
	StoreCity      string `json:"store_city"`
	StoreName      string `json:"store_name"`
	StoreAddress   string `json:"store_address"`
}

type SignupResponse struct {
	UserID uuid.UUID `json:"user_id"`
	CityID uint      `json:"city_id"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string    `json:"token"`
	Role   string    `json:"role"`
	UserID uuid.UUID `json:"user_id"`
	CityID uint      `json:"city_id"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
}

func NewAuthService(users repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup registers a user for one of the three roles. Inventory staff
// opening a new dark store get the city upserted by name and exactly one
// location created; delivery partners start INACTIVE.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*SignupResponse, *ServiceError) {
	switch req.Role {
	case models.RoleCustomer, models.RoleInventoryStaff, models.RoleDeliveryPartner:
	default:
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid role"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to hash password"}
	}

	user := &models.User{
		ID:        uuid.New(),
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Active:    true,
	}

	if req.Role == models.RoleInventoryStaff && req.CreateNewStore {
		if req.StoreCity == "" || req.StoreAddress == "" {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "store_city and store_address are required to create a store"}
		}
		storeName := req.StoreName
		if storeName == "" {
			storeName = req.StoreCity + " dark store"
		}
		cityID, err := s.users.CreateStaffWithStore(ctx, user, req.StoreCity, storeName, req.StoreAddress)
		if err != nil {
			return nil, signupError(err)
		}
		return &SignupResponse{UserID: user.ID, CityID: cityID}, nil
	}

	if req.CityID == nil {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "city_id is required"}
	}
	user.CityID = *req.CityID

	if req.Role == models.RoleDeliveryPartner {
		if err := s.users.CreatePartner(ctx, user); err != nil {
			return nil, signupError(err)
		}
	} else {
		if err := s.users.CreateCustomer(ctx, user); err != nil {
			return nil, signupError(err)
		}
	}
	return &SignupResponse{UserID: user.ID, CityID: user.CityID}, nil
}

// Login authenticates by phone or email and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, *ServiceError) {
	user, err := s.users.FindByIdentifier(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
		}
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to look up user"}
	}
	if !user.Active {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Account is disabled"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}

	token, err := s.tokens.Generate(user.ID, user.Role, user.CityID)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to generate token"}
	}
	return &LoginResponse{Token: token, Role: user.Role, UserID: user.ID, CityID: user.CityID}, nil
}

func signupError(err error) *ServiceError {
	if errors.Is(err, repository.ErrDuplicatePhone) {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Phone already registered"}
	}
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create account"}
}
