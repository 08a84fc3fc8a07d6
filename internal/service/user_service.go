package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sumit-1109/Link-Management-Backend/internal/auth"
	"github.com/Sumit-1109/Link-Management-Backend/internal/model"
	"github.com/Sumit-1109/Link-Management-Backend/internal/repository"
)

// UserService handles accounts: signup, login, profile management and
// account deletion with its link cascade.
type UserService struct {
	users  *repository.UserRepository
	links  *repository.LinkRepository
	tokens *auth.TokenManager
}

// UserServiceInterface defines the contract for account operations
type UserServiceInterface interface {
	Signup(ctx context.Context, req *model.SignupRequest) error
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	Modify(ctx context.Context, id uuid.UUID, req *model.ModifyUserRequest) (*model.ModifyUserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Greeting(ctx context.Context, id uuid.UUID) (*model.GreetingResponse, error)
}

// NewUserService creates a new user service
func NewUserService(users *repository.UserRepository, links *repository.LinkRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, links: links, tokens: tokens}
}

// Signup validates and creates a new account with a bcrypt-hashed
// password.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	mobile := strings.TrimSpace(req.Mobile)

	if req.Password != req.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	if !isValidName(name) {
		return &ValidationError{Field: "name", Message: "invalid name format"}
	}
	if !isValidEmail(email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if !isValidPassword(req.Password) {
		return &ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters long, contain 1 number & 1 special character",
		}
	}
	if !isValidMobile(mobile) {
		return &ValidationError{Field: "mobile", Message: "invalid mobile number"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return mapAccountConflict(err)
	}
	return nil
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  model.UserIdentity{ID: user.ID, Email: user.Email},
	}, nil
}

// GetProfile returns the account's profile
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Modify applies a partial profile update, enforcing field validity
// and email/mobile uniqueness against other accounts.
func (s *UserService) Modify(ctx context.Context, id uuid.UUID, req *model.ModifyUserRequest) (*model.ModifyUserResponse, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &model.ModifyUserResponse{}

	if req.Name != nil {
		if !isValidName(*req.Name) {
			return nil, &ValidationError{Field: "name", Message: "invalid name format"}
		}
		resp.NameChanged = user.Name != *req.Name
		user.Name = *req.Name
	}
	if req.Email != nil {
		if !isValidEmail(*req.Email) {
			return nil, &ValidationError{Field: "email", Message: "invalid email format"}
		}
		taken, err := s.users.EmailInUse(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		resp.EmailChanged = user.Email != *req.Email
		user.Email = *req.Email
	}
	if req.Mobile != nil {
		if !isValidMobile(*req.Mobile) {
			return nil, &ValidationError{Field: "mobile", Message: "invalid mobile number"}
		}
		taken, err := s.users.MobileInUse(ctx, *req.Mobile, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrMobileTaken
		}
		user.Mobile = *req.Mobile
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapAccountConflict(err)
	}

	resp.Name = user.Name
	resp.Email = user.Email
	resp.Mobile = user.Mobile
	return resp, nil
}

// Delete removes the account and every link it owns. The explicit
// link deletion mirrors the schema-level cascade so the click log
// never outlives its owner.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.links.DeleteAllByOwner(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Greeting builds the time-of-day greeting with the user's first name
// and initials.
func (s *UserService) Greeting(ctx context.Context, id uuid.UUID) (*model.GreetingResponse, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName, initials := nameParts(user.Name)

	return &model.GreetingResponse{
		Greeting:  greetingFor(time.Now().Hour()),
		FirstName: firstName,
		Initials:  initials,
	}, nil
}

func greetingFor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 16:
		return "afternoon"
	case hour >= 16 && hour < 20:
		return "evening"
	default:
		return "night"
	}
}

func nameParts(name string) (firstName, initials string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	firstName = parts[0]
	initials = strings.ToUpper(firstName[:1])
	if len(parts) > 1 {
		initials += strings.ToUpper(parts[1][:1])
	}
	return firstName, initials
}

func mapAccountConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrMobileTaken):
		return ErrMobileTaken
	}
	return err
}

// Ensure UserService implements its interface at compile time
var _ UserServiceInterface = (*UserService)(nil)
