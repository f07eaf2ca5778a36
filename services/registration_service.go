// services/registration_service.go
package services

import (
	"context"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/utils"
)

// ProfileStore is the persistence surface the workflow needs for user profiles.
type ProfileStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// RegistrationStore is the persistence surface for pending registration requests.
type RegistrationStore interface {
	Insert(ctx context.Context, req *models.RegistrationRequest) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.RegistrationRequest, error)
	FindPendingByEmail(ctx context.Context, email string) (*models.RegistrationRequest, error)
	ListPending(ctx context.Context) ([]models.RegistrationRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CredentialMailer delivers the temporary password issued at approval.
// Delivery is best-effort; a nil mailer or a send failure never fails the approval.
type CredentialMailer interface {
	SendTemporaryPassword(to, fullName, tempPassword string) error
}

// RegistrationService owns the registration lifecycle: public submission,
// admin review, and the approve/reject transitions that mint profiles.
type RegistrationService struct {
	profiles ProfileStore
	requests RegistrationStore
	mailer   CredentialMailer
}

func NewRegistrationService(profiles ProfileStore, requests RegistrationStore, mailer CredentialMailer) *RegistrationService {
	return &RegistrationService{profiles: profiles, requests: requests, mailer: mailer}
}

// Submit validates and records a new registration request in the pending state.
// The chosen password is kept only as a bcrypt hash; credentials are re-issued
// at approval time, so the raw value is never persisted or echoed back.
func (s *RegistrationService) Submit(ctx context.Context, input models.RegisterRequest) (*models.RegistrationRequest, error) {
	fullName := utils.SanitizeInput(input.FullName)
	if fullName == "" {
		return nil, ValidationError("full name is required")
	}

	email, err := utils.SanitizeEmail(input.Email)
	if err != nil {
		return nil, ValidationError("invalid email format")
	}

	phone, err := utils.SanitizePhone(input.Phone)
	if err != nil || phone == "" {
		return nil, ValidationError("a valid phone number is required")
	}

	if len(input.Password) < 6 {
		return nil, ValidationError("password must be at least 6 characters long")
	}

	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	pending, err := s.requests.FindPendingByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrRegistrationPending
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	req := &models.RegistrationRequest{
		ID:           primitive.NewObjectID(),
		Email:        email,
		FullName:     fullName,
		Phone:        phone,
		PasswordHash: hash,
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrRegistrationPending
		}
		return nil, err
	}
	return req, nil
}

// ListPending returns the review queue, newest submissions first.
func (s *RegistrationService) ListPending(ctx context.Context) ([]models.RegistrationRequest, error) {
	requests, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	SortRequestsNewestFirst(requests)
	return requests, nil
}

// Approve turns a pending request into an approved profile and issues a fresh
// temporary password, returned once to the caller and emailed best-effort.
//
// Approving an id that was already approved is a no-op success: the existing
// profile is returned with an empty temporary password. The profile reuses the
// request's id, so repeated or concurrent approvals converge on one document.
func (s *RegistrationService) Approve(ctx context.Context, id primitive.ObjectID, role string) (*models.User, string, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if req == nil {
		return nil, "", ErrRequestNotFound
	}

	existing, err := s.profiles.Get(ctx, req.ID)
	if err != nil {
		return nil, "", err
	}

	if req.Status == models.StatusApproved && existing != nil {
		existing.Password = ""
		return existing, "", nil
	}

	if role == "" {
		role = models.RoleEmployee
	}
	if !models.ValidRole(role) {
		return nil, "", ValidationError("role must be either admin or employee")
	}

	if existing != nil {
		// A prior attempt already minted this profile and failed partway.
		// Keep its role: re-running the bootstrap count now would demote
		// the first administrator.
		role = existing.Role
	} else {
		count, err := s.profiles.Count(ctx)
		if err != nil {
			return nil, "", err
		}
		if count == 0 {
			// The very first profile must be an administrator or nobody
			// could ever approve anyone else.
			role = models.RoleAdmin
		}
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	profile := &models.User{
		ID:        req.ID,
		Email:     req.Email,
		Password:  hash,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Role:      role,
		Status:    models.StatusApproved,
		CreatedAt: req.CreatedAt,
		UpdatedAt: now,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		return nil, "", err
	}

	if err := s.requests.SetStatus(ctx, req.ID, models.StatusApproved); err != nil {
		// The profile exists, so a retry lands in the recovery branch above
		// or re-upserts the same document. Surface the error for the retry.
		return nil, "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendTemporaryPassword(profile.Email, profile.FullName, tempPassword); err != nil {
			log.Printf("Failed to email temporary password to %s: %v", profile.Email, err)
		}
	}

	profile.Password = ""
	return profile, tempPassword, nil
}

// Reject removes a pending request. Rejecting an unknown or already rejected
// id succeeds so that repeated clicks on the same row stay harmless.
func (s *RegistrationService) Reject(ctx context.Context, id primitive.ObjectID) error {
	return s.requests.Delete(ctx, id)
}

// SortRequestsNewestFirst orders requests by creation time descending, with
// the id as a stable tiebreaker for equal timestamps.
func SortRequestsNewestFirst(requests []models.RegistrationRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID.Hex() < requests[j].ID.Hex()
	})
}

// SortUsersNewestFirst orders profiles the same way the review queue is ordered.
func SortUsersNewestFirst(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID.Hex() < users[j].ID.Hex()
	})
}
