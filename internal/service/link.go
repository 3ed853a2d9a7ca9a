package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/emelnikov/linkly/internal/models"
)

// ErrInvalidURL is returned when the submitted string is not an absolute
// http(s) URL with a host. Validation happens before the provider is
// called.
var ErrInvalidURL = errors.New("invalid url")

// LinkRepository defines the interface for working with link records at
// the business logic layer.
type LinkRepository interface {
	Create(ctx context.Context, userID int64, longURL, shortURL, domain string) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Link, error)
	IncrementCopyCount(ctx context.Context, id int64) (*models.Link, error)
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*models.LinkStats, error)
	CountByDay(ctx context.Context, userID *int64) ([]models.BucketCount, error)
	CountByMonth(ctx context.Context, userID *int64) ([]models.BucketCount, error)
}

// Shortener delegates short-link creation to the external provider.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// LinkService manages link creation, listing, counters, deletion and the
// statistics views.
type LinkService struct {
	links     LinkRepository
	shortener Shortener
}

func NewLinkService(links LinkRepository, shortener Shortener) *LinkService {
	return &LinkService{
		links:     links,
		shortener: shortener,
	}
}

// Shorten validates the URL, obtains a short URL from the provider and
// persists the link record for the given owner.
func (s *LinkService) Shorten(ctx context.Context, userID int64, longURL string) (*models.Link, error) {
	const op = "service.LinkService.Shorten"

	u, err := url.Parse(longURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidURL)
	}

	shortURL, err := s.shortener.Shorten(ctx, longURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
	}

	link, err := s.links.Create(ctx, userID, longURL, shortURL, u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to persist link: %w", op, err)
	}

	return link, nil
}

// List returns every link record.
func (s *LinkService) List(ctx context.Context) ([]models.Link, error) {
	const op = "service.LinkService.List"

	links, err := s.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// ListByUser returns the links owned by the given account.
func (s *LinkService) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	const op = "service.LinkService.ListByUser"

	links, err := s.links.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// IncrementCopyCount atomically bumps the counter for the given link.
func (s *LinkService) IncrementCopyCount(ctx context.Context, id int64) (*models.Link, error) {
	const op = "service.LinkService.IncrementCopyCount"

	link, err := s.links.IncrementCopyCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to increment copy count: %w", op, err)
	}

	return link, nil
}

// Delete removes one link record.
func (s *LinkService) Delete(ctx context.Context, id int64) error {
	const op = "service.LinkService.Delete"

	if err := s.links.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}

// DeleteBulk removes the given link records; missing ids are skipped.
func (s *LinkService) DeleteBulk(ctx context.Context, ids []int64) (int64, error) {
	const op = "service.LinkService.DeleteBulk"

	deleted, err := s.links.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete links: %w", op, err)
	}

	return deleted, nil
}

// DeleteAll removes every link record.
func (s *LinkService) DeleteAll(ctx context.Context) (int64, error) {
	const op = "service.LinkService.DeleteAll"

	deleted, err := s.links.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete links: %w", op, err)
	}

	return deleted, nil
}

// Dashboard returns the aggregate totals and distinct domains.
func (s *LinkService) Dashboard(ctx context.Context) (*models.LinkStats, error) {
	const op = "service.LinkService.Dashboard"

	stats, err := s.links.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link stats: %w", op, err)
	}

	return stats, nil
}

// Charts returns the global daily and monthly creation histograms.
func (s *LinkService) Charts(ctx context.Context) (*models.ChartData, error) {
	const op = "service.LinkService.Charts"

	data, err := s.chartData(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

// UserCharts returns the creation histograms scoped to one owner.
func (s *LinkService) UserCharts(ctx context.Context, userID int64) (*models.ChartData, error) {
	const op = "service.LinkService.UserCharts"

	data, err := s.chartData(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

func (s *LinkService) chartData(ctx context.Context, userID *int64) (*models.ChartData, error) {
	daily, err := s.links.CountByDay(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counts: %w", err)
	}

	monthly, err := s.links.CountByMonth(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly counts: %w", err)
	}

	return &models.ChartData{
		Daily:   daily,
		Monthly: monthly,
	}, nil
}
