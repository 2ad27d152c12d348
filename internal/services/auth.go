package services

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/models"
	"github.com/segmentio/kafka-go"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// User-facing validation messages, reported in this order.
const (
	MsgNameRequired       = "Name is required"
	MsgEmailRequired      = "Email is required"
	MsgPasswordRequired   = "Password is required"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgEmailAlreadyExists = "Email is already registered. Please use a different email or login."
)

// Error variables
var (
	ErrRegistrationFailed  = errors.New("registration failed")
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// ValidationError carries every validation message collected for one
// registration attempt. Err is set when the attempt also failed in the store.
type ValidationError struct {
	Messages []string
	Err      error
}

func (e *ValidationError) Error() string {
	msg := "validation failed: " + strings.Join(e.Messages, "; ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, name, email, password string) (*models.UserDB, error)
}

// EventWriter defines a Kafka writer abstraction.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// AuthService handles registration and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	events EventWriter
}

// NewAuthService creates a new AuthService instance. events may be nil, in
// which case no events are published.
func NewAuthService(reader UserReader, writer UserWriter, events EventWriter) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		events: events,
	}
}

// Register validates the input and creates a new user.
//
// Validation failures are returned together as a *ValidationError. Any store
// failure, including a duplicate email detected only at insert time, is
// returned as ErrRegistrationFailed. When the duplicate lookup fails after
// other messages were collected, both are reported: a *ValidationError
// wrapping ErrRegistrationFailed.
func (svc *AuthService) Register(ctx context.Context, name, email, password string) (*models.UserDB, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var messages []string

	if name == "" {
		messages = append(messages, MsgNameRequired)
	}
	if email == "" {
		messages = append(messages, MsgEmailRequired)
	}
	if password == "" {
		messages = append(messages, MsgPasswordRequired)
	} else if utf8.RuneCountInString(password) < MinPasswordLength {
		messages = append(messages, MsgPasswordTooShort)
	}

	var lookupErr error
	if email != "" {
		existing, err := svc.reader.GetByEmail(ctx, email)
		if err != nil {
			logger.Log.Errorw("failed to check user exists", "email", email, "err", err)
			lookupErr = ErrRegistrationFailed
		} else if existing != nil {
			logger.Log.Infow("email already registered", "email", email)
			messages = append(messages, MsgEmailAlreadyExists)
		}
	}

	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages, Err: lookupErr}
	}
	if lookupErr != nil {
		return nil, lookupErr
	}

	user, err := svc.writer.Save(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, models.ErrConstraintViolation) {
			logger.Log.Warnw("email registered concurrently", "email", email, "err", err)
		} else {
			logger.Log.Errorw("failed to save user", "email", email, "err", err)
		}
		return nil, ErrRegistrationFailed
	}

	logger.Log.Infow("user registered", "user_id", user.ID, "email", user.Email)
	svc.publishEvent(ctx, models.EventUserRegistered, user)

	return user, nil
}

// Login authenticates a user by exact email and exact password match.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.UserDB, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "email", email, "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Infow("login for unknown email", "email", email)
		return nil, ErrInvalidCredentials
	}
	if user.Password != password {
		logger.Log.Infow("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	svc.publishEvent(ctx, models.EventUserLoggedIn, user)

	return user, nil
}

// publishEvent publishes a user event to Kafka. Failures are logged only.
func (svc *AuthService) publishEvent(ctx context.Context, eventType string, user *models.UserDB) {
	if svc.events == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "type", eventType)
		return
	}

	event := models.UserEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Email:     user.Email,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal user event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := svc.events.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish user event to Kafka", "event_id", event.EventID, "type", eventType, "error", err)
	} else {
		logger.Log.Infow("User event published to Kafka", "event_id", event.EventID, "type", eventType)
	}
}
