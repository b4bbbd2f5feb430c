package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is lowered by tests.
var passwordHashCost = bcrypt.DefaultCost

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

var errPhotosDisabled = errors.New("photo storage is not configured")

// RegisterInput carries a sign-up form. Photo is optional.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Photo           *PhotoUpload
}

// AccountService registers and authenticates users.
type AccountService struct {
	userRepo repository.UserRepository
	tx       repository.Transactor
	photos   *PhotoService
}

func NewAccountService(userRepo repository.UserRepository, tx repository.Transactor, photos *PhotoService) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		tx:       tx,
		photos:   photos,
	}
}

// Register creates a user. Username and email uniqueness is checked up
// front for a friendly message and again by the unique constraints. A
// rejected photo rolls the whole registration back.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePasswordConfirmation(in.Password, in.PasswordConfirm); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}

	err = s.tx.WithinTransaction(ctx, func(tx *repository.Repositories) error {
		usernameTaken, emailTaken, err := tx.Users.Taken(ctx, user.Username, user.Email)
		if err != nil {
			return err
		}
		if usernameTaken {
			return models.NewConflictError("Username already in use")
		}
		if emailTaken {
			return models.NewConflictError("Email already registered")
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		if in.Photo == nil {
			return nil
		}
		if s.photos == nil {
			return models.NewInternalError(errPhotosDisabled)
		}
		path, err := s.photos.Store(ctx, user.ID, *in.Photo)
		if err != nil {
			return err
		}
		if err := tx.Users.UpdatePhoto(ctx, user.ID, path); err != nil {
			return err
		}
		user.Photo = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail
// with the same AuthFailure.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(getDummyHash(), []byte(password))
		return nil, models.NewAuthFailureError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewAuthFailureError()
	}
	return user, nil
}

func getDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("projecthub-dummy-password"), passwordHashCost)
	})
	return dummyHash
}

func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AccountService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// ListPeople returns users ordered by username.
func (s *AccountService) ListPeople(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SetPhoto stores an uploaded profile photo and points the user at it.
func (s *AccountService) SetPhoto(ctx context.Context, userID uint, upload PhotoUpload) (*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	path, err := s.photos.Store(ctx, userID, upload)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePhoto(ctx, userID, path); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}
