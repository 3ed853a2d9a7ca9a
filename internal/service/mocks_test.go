package service

import (
	"context"
	"time"

	"github.com/emelnikov/linkly/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	args := r.Called(ctx, username, email, passwordHash)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := r.Called(ctx, identifier)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := r.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) SetActivationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	args := r.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (r *MockUserRepository) ActivateByToken(ctx context.Context, token string) (*models.User, error) {
	args := r.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) (*models.User, error) {
	args := r.Called(ctx, email, token, expiresAt)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	args := r.Called(ctx, token, passwordHash)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendActivation(to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func (m *MockMailer) SendResetConfirmation(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (i *MockTokenIssuer) Issue(userID int64, role string) (string, error) {
	args := i.Called(userID, role)
	return args.String(0), args.Error(1)
}

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Create(ctx context.Context, userID int64, longURL, shortURL, domain string) (*models.Link, error) {
	args := r.Called(ctx, userID, longURL, shortURL, domain)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) List(ctx context.Context) ([]models.Link, error) {
	args := r.Called(ctx)
	links, _ := args.Get(0).([]models.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	args := r.Called(ctx, userID)
	links, _ := args.Get(0).([]models.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) IncrementCopyCount(ctx context.Context, id int64) (*models.Link, error) {
	args := r.Called(ctx, id)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) Delete(ctx context.Context, id int64) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

func (r *MockLinkRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	args := r.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (r *MockLinkRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := r.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (r *MockLinkRepository) Stats(ctx context.Context) (*models.LinkStats, error) {
	args := r.Called(ctx)
	stats, _ := args.Get(0).(*models.LinkStats)
	return stats, args.Error(1)
}

func (r *MockLinkRepository) CountByDay(ctx context.Context, userID *int64) ([]models.BucketCount, error) {
	args := r.Called(ctx, userID)
	buckets, _ := args.Get(0).([]models.BucketCount)
	return buckets, args.Error(1)
}

func (r *MockLinkRepository) CountByMonth(ctx context.Context, userID *int64) ([]models.BucketCount, error) {
	args := r.Called(ctx, userID)
	buckets, _ := args.Get(0).([]models.BucketCount)
	return buckets, args.Error(1)
}

type MockShortener struct {
	mock.Mock
}

func (s *MockShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	args := s.Called(ctx, longURL)
	return args.String(0), args.Error(1)
}
