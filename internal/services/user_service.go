package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
	"dailydiet/internal/telemetry"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// UpdateUserInput carries a partial user update; empty strings are absent.
type UpdateUserInput struct {
	Name        string
	Email       string
	OldPassword string
	NewPassword string
}

// UserService handles registration and profile updates.
type UserService struct {
	userRepo  repositories.UserRepository
	sessions  *SessionService
	publisher EventPublisher
	logger    *slog.Logger
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(userRepo repositories.UserRepository, sessions *SessionService, publisher EventPublisher, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		sessions:  sessions,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Register creates a user linked to sessionID. When sessionID already
// belongs to another account a fresh token is linked instead; the returned
// token is the one now stored on the user.
func (s *UserService) Register(ctx context.Context, sessionID string, in RegisterInput) (*models.User, string, error) {
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, "", err
	}
	if in.Password != in.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	if _, linked, err := s.sessions.LookupUser(ctx, sessionID); err != nil {
		return nil, "", err
	} else if linked {
		sessionID = s.sessions.NewToken()
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		SessionID:    &sessionID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	telemetry.RecordUserOperation("created")
	publishEvent(s.logger, s.publisher, Event{Type: EventUserCreated, UserID: user.ID, SessionID: sessionID})
	return user, sessionID, nil
}

// Get returns the user identified by id or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial update to the user identified by id. A new
// password requires the correct old one; on any failure nothing is stored.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if in.Email != "" {
		if err := s.ensureEmailFree(ctx, in.Email, user.ID); err != nil {
			return err
		}
		user.Email = in.Email
	}
	if in.Name != "" {
		user.Name = in.Name
	}

	if in.NewPassword != "" {
		if in.OldPassword == "" {
			return ErrOldPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
			return ErrOldPasswordIncorrect
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return ErrEmailTaken
		case errors.Is(err, repositories.ErrNotFound):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}

	telemetry.RecordUserOperation("updated")
	publishEvent(s.logger, s.publisher, Event{Type: EventUserUpdated, UserID: user.ID})
	return nil
}

// ensureEmailFree fails with ErrEmailTaken when email belongs to a user
// other than selfID.
func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}
