// services/registration_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/utils"
)

type fakeProfileStore struct {
	profiles  map[primitive.ObjectID]*models.User
	upsertErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeProfileStore) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copy := *u
	return &copy, nil
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.profiles {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) Upsert(_ context.Context, user *models.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	copy := *user
	f.profiles[user.ID] = &copy
	return nil
}

func (f *fakeProfileStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}

type fakeRegistrationStore struct {
	requests     map[primitive.ObjectID]*models.RegistrationRequest
	insertErr    error
	setStatusErr error
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{requests: make(map[primitive.ObjectID]*models.RegistrationRequest)}
}

func (f *fakeRegistrationStore) Insert(_ context.Context, req *models.RegistrationRequest) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copy := *req
	f.requests[req.ID] = &copy
	return nil
}

func (f *fakeRegistrationStore) Get(_ context.Context, id primitive.ObjectID) (*models.RegistrationRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copy := *r
	return &copy, nil
}

func (f *fakeRegistrationStore) FindPendingByEmail(_ context.Context, email string) (*models.RegistrationRequest, error) {
	for _, r := range f.requests {
		if r.Email == email && r.Status == models.StatusPending {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationStore) ListPending(_ context.Context) ([]models.RegistrationRequest, error) {
	var out []models.RegistrationRequest
	for _, r := range f.requests {
		if r.Status == models.StatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationStore) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	if f.setStatusErr != nil {
		err := f.setStatusErr
		f.setStatusErr = nil
		return err
	}
	if r, ok := f.requests[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeRegistrationStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.requests, id)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendTemporaryPassword(to, fullName, tempPassword string) error {
	f.sent = append(f.sent, to)
	return nil
}

func newTestService() (*RegistrationService, *fakeProfileStore, *fakeRegistrationStore, *fakeMailer) {
	profiles := newFakeProfileStore()
	requests := newFakeRegistrationStore()
	mailer := &fakeMailer{}
	return NewRegistrationService(profiles, requests, mailer), profiles, requests, mailer
}

func validInput() models.RegisterRequest {
	return models.RegisterRequest{
		FullName: "Jordan Blake",
		Email:    "jordan@example.com",
		Phone:    "+12025550147",
		Password: "secret123",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc, _, requests, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "jordan@example.com", created.Email)
	assert.False(t, created.ID.IsZero())

	stored := requests.requests[created.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, utils.CheckPassword("secret123", stored.PasswordHash))
}

func TestSubmitNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	input := validInput()
	input.Email = "  Jordan@Example.COM "
	created, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", created.Email)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
	}{
		{"missing full name", func(r *models.RegisterRequest) { r.FullName = "  " }},
		{"invalid email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }},
		{"missing phone", func(r *models.RegisterRequest) { r.Phone = "" }},
		{"short password", func(r *models.RegisterRequest) { r.Password = "12345" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestService()
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Submit(context.Background(), input)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestSubmitRejectsExistingProfileEmail(t *testing.T) {
	svc, profiles, _, _ := newTestService()

	id := primitive.NewObjectID()
	profiles.profiles[id] = &models.User{
		ID:     id,
		Email:  "jordan@example.com",
		Role:   models.RoleEmployee,
		Status: models.StatusApproved,
	}

	_, err := svc.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestSubmitRejectsDuplicatePendingRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrRegistrationPending)
}

func TestApproveFirstProfileBecomesAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	// An employee role is requested, but the very first profile is
	// promoted to admin regardless.
	profile, tempPassword, err := svc.Approve(context.Background(), created.ID, models.RoleEmployee)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, models.StatusApproved, profile.Status)
	assert.NotEmpty(t, tempPassword)
}

func TestApproveUsesRequestedRoleAfterBootstrap(t *testing.T) {
	svc, profiles, _, _ := newTestService()

	adminID := primitive.NewObjectID()
	profiles.profiles[adminID] = &models.User{
		ID:     adminID,
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
		Status: models.StatusApproved,
	}

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	profile, _, err := svc.Approve(context.Background(), created.ID, models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, profile.Role)
}

func TestApproveDefaultsToEmployee(t *testing.T) {
	svc, profiles, _, _ := newTestService()

	adminID := primitive.NewObjectID()
	profiles.profiles[adminID] = &models.User{
		ID:     adminID,
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
		Status: models.StatusApproved,
	}

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	profile, _, err := svc.Approve(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, profile.Role)
}

func TestApproveRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	_, _, err = svc.Approve(context.Background(), created.ID, "owner")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestApproveUnknownRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.Approve(context.Background(), primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, profiles, _, mailer := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	first, tempPassword, err := svc.Approve(context.Background(), created.ID, "")
	require.NoError(t, err)
	require.NotEmpty(t, tempPassword)

	second, repeatPassword, err := svc.Approve(context.Background(), created.ID, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, repeatPassword, "re-approving must not mint a new credential")
	assert.Len(t, profiles.profiles, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestApproveRetryAfterPartialFailureKeepsBootstrapRole(t *testing.T) {
	svc, profiles, requests, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	// The profile is upserted as admin, then marking the request fails.
	requests.setStatusErr = errors.New("write timeout")
	_, _, err = svc.Approve(context.Background(), created.ID, "")
	require.Error(t, err)

	// The retry must not demote the bootstrap administrator to the
	// default role now that one profile exists.
	profile, tempPassword, err := svc.Approve(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.NotEmpty(t, tempPassword)
	assert.Len(t, profiles.profiles, 1)
	assert.Equal(t, models.StatusApproved, requests.requests[created.ID].Status)
}

func TestSubmitMapsDuplicateKeyToPendingConflict(t *testing.T) {
	svc, _, requests, _ := newTestService()

	// Two concurrent submissions can both pass the pending lookup; the
	// partial unique index turns the second insert into a duplicate key.
	requests.insertErr = mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}

	_, err := svc.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrRegistrationPending)
}

func TestApproveProfileReusesRequestID(t *testing.T) {
	svc, profiles, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	profile, tempPassword, err := svc.Approve(context.Background(), created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, profile.ID)

	// The returned profile never carries the hash; the stored one does,
	// and it must match the issued temporary password.
	assert.Empty(t, profile.Password)
	stored := profiles.profiles[created.ID]
	require.NotNil(t, stored)
	assert.NoError(t, utils.CheckPassword(tempPassword, stored.Password))
}

func TestApproveMapsDuplicateKeyToConflict(t *testing.T) {
	svc, profiles, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	profiles.upsertErr = mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}

	_, _, err = svc.Approve(context.Background(), created.ID, "")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRejectRemovesRequest(t *testing.T) {
	svc, _, requests, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), created.ID))
	assert.Empty(t, requests.requests)

	// A repeated reject, or a reject of an unknown id, still succeeds.
	assert.NoError(t, svc.Reject(context.Background(), created.ID))
	assert.NoError(t, svc.Reject(context.Background(), primitive.NewObjectID()))
}

func TestRejectedEmailCanRegisterAgain(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Reject(context.Background(), created.ID))

	again, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, again.ID)
}

func TestListPendingOrder(t *testing.T) {
	svc, _, requests, _ := newTestService()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older := models.RegistrationRequest{
		ID:        primitive.NewObjectID(),
		Email:     "older@example.com",
		Status:    models.StatusPending,
		CreatedAt: base,
	}
	newer := models.RegistrationRequest{
		ID:        primitive.NewObjectID(),
		Email:     "newer@example.com",
		Status:    models.StatusPending,
		CreatedAt: base.Add(time.Hour),
	}
	requests.requests[older.ID] = &older
	requests.requests[newer.ID] = &newer

	listed, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newer@example.com", listed[0].Email)
	assert.Equal(t, "older@example.com", listed[1].Email)
}

func TestListPendingTiebreakOnID(t *testing.T) {
	svc, _, requests, _ := newTestService()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := models.RegistrationRequest{
		ID:        primitive.ObjectID{0x01},
		Email:     "a@example.com",
		Status:    models.StatusPending,
		CreatedAt: at,
	}
	b := models.RegistrationRequest{
		ID:        primitive.ObjectID{0x02},
		Email:     "b@example.com",
		Status:    models.StatusPending,
		CreatedAt: at,
	}
	requests.requests[b.ID] = &b
	requests.requests[a.ID] = &a

	listed, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "a@example.com", listed[0].Email)
	assert.Equal(t, "b@example.com", listed[1].Email)
}
