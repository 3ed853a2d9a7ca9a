package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emelnikov/linkly/internal/database"
	"github.com/emelnikov/linkly/internal/models"
	"github.com/jmoiron/sqlx"
)

type linkRecord struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	LongURL   string       `db:"long_url"`
	ShortURL  string       `db:"short_url"`
	Domain    string       `db:"domain"`
	CopyCount int64        `db:"copy_count"`
	CreatedAt time.Time    `db:"created_at"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

func (r *linkRecord) ToLink() *models.Link {
	link := &models.Link{
		ID:        r.ID,
		UserID:    r.UserID,
		LongURL:   r.LongURL,
		ShortURL:  r.ShortURL,
		Domain:    r.Domain,
		CopyCount: r.CopyCount,
		CreatedAt: r.CreatedAt,
	}

	if r.ExpiresAt.Valid {
		expiresAt := r.ExpiresAt.Time
		link.ExpiresAt = &expiresAt
	}

	return link
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, userID int64, longURL, shortURL, domain string) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(user_id, long_url, short_url, domain)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, userID, longURL, shortURL, domain)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) List(ctx context.Context) ([]models.Link, error) {
	const op = "database.postgres.LinkRepository.List"

	var recs []linkRecord
	query := `SELECT * FROM links
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]models.Link, 0, len(recs))
	for _, rec := range recs {
		links = append(links, *rec.ToLink())
	}

	return links, nil
}

func (r *LinkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	const op = "database.postgres.LinkRepository.ListByUser"

	var recs []linkRecord
	query := `SELECT * FROM links
		WHERE user_id = $1
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]models.Link, 0, len(recs))
	for _, rec := range recs {
		links = append(links, *rec.ToLink())
	}

	return links, nil
}

// IncrementCopyCount bumps the counter in a single atomic statement, so
// concurrent increments on the same record never lose updates.
func (r *LinkRepository) IncrementCopyCount(ctx context.Context, id int64) (*models.Link, error) {
	const op = "database.postgres.LinkRepository.IncrementCopyCount"

	rec := new(linkRecord)
	query := `UPDATE links
		SET copy_count = copy_count + 1
		WHERE id = $1
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to increment copy count: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.LinkRepository.Delete"

	query := `DELETE FROM links
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete link record: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}

// DeleteByIDs removes the given link records. Missing ids are not an
// error; the number of records actually deleted is returned.
func (r *LinkRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	const op = "database.postgres.LinkRepository.DeleteByIDs"

	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM links WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete link records: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	return rows, nil
}

func (r *LinkRepository) DeleteAll(ctx context.Context) (int64, error) {
	const op = "database.postgres.LinkRepository.DeleteAll"

	res, err := r.db.ExecContext(ctx, `DELETE FROM links`)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete link records: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	return rows, nil
}

func (r *LinkRepository) Stats(ctx context.Context) (*models.LinkStats, error) {
	const op = "database.postgres.LinkRepository.Stats"

	var totals struct {
		TotalLinks  int64 `db:"total_links"`
		TotalCopies int64 `db:"total_copies"`
	}
	query := `SELECT COUNT(*) AS total_links, COALESCE(SUM(copy_count), 0) AS total_copies
		FROM links`

	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("%s: failed to get link totals: %w", op, err)
	}

	var domains []string
	query = `SELECT DISTINCT domain FROM links
		WHERE domain <> ''
		ORDER BY domain`

	if err := r.db.SelectContext(ctx, &domains, query); err != nil {
		return nil, fmt.Errorf("%s: failed to get distinct domains: %w", op, err)
	}

	return &models.LinkStats{
		TotalLinks:  totals.TotalLinks,
		TotalCopies: totals.TotalCopies,
		Domains:     domains,
	}, nil
}

// CountByDay returns per-day link creation counts sorted by bucket
// ascending. A non-nil userID restricts the counts to one owner.
func (r *LinkRepository) CountByDay(ctx context.Context, userID *int64) ([]models.BucketCount, error) {
	const op = "database.postgres.LinkRepository.CountByDay"

	buckets, err := r.countByBucket(ctx, "YYYY-MM-DD", userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count links by day: %w", op, err)
	}

	return buckets, nil
}

// CountByMonth returns per-month link creation counts sorted by bucket
// ascending. A non-nil userID restricts the counts to one owner.
func (r *LinkRepository) CountByMonth(ctx context.Context, userID *int64) ([]models.BucketCount, error) {
	const op = "database.postgres.LinkRepository.CountByMonth"

	buckets, err := r.countByBucket(ctx, "YYYY-MM", userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count links by month: %w", op, err)
	}

	return buckets, nil
}

func (r *LinkRepository) countByBucket(ctx context.Context, format string, userID *int64) ([]models.BucketCount, error) {
	var recs []struct {
		Bucket string `db:"bucket"`
		Count  int64  `db:"count"`
	}

	query := `SELECT to_char(created_at, $1) AS bucket, COUNT(*) AS count
		FROM links
		GROUP BY bucket
		ORDER BY bucket`
	args := []any{format}

	if userID != nil {
		query = `SELECT to_char(created_at, $1) AS bucket, COUNT(*) AS count
			FROM links
			WHERE user_id = $2
			GROUP BY bucket
			ORDER BY bucket`
		args = append(args, *userID)
	}

	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, err
	}

	buckets := make([]models.BucketCount, 0, len(recs))
	for _, rec := range recs {
		buckets = append(buckets, models.BucketCount{Bucket: rec.Bucket, Count: rec.Count})
	}

	return buckets, nil
}
