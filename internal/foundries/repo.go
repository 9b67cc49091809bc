package foundries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const foundryColumns = `slug, name, handle, bio, website, instagram, is_foundry`

func scanFoundry(s interface{ Scan(...any) error }) (models.FoundryRecord, error) {
	var f models.FoundryRecord
	err := s.Scan(&f.Slug, &f.Name, &f.Handle, &f.Bio, &f.Website, &f.Instagram, &f.IsFoundry)
	return f, err
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*models.FoundryRecord, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+foundryColumns+` FROM foundries WHERE slug = ?`, slug)
	f, err := scanFoundry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan foundry: %w", err)
	}
	return &f, nil
}

// Count returns how many foundries match q (substring of name or slug).
func (r *Repo) Count(ctx context.Context, q string) (int, error) {
	where, args := searchWhere(q)
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM foundries`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count foundries: %w", err)
	}
	return n, nil
}

func (r *Repo) List(ctx context.Context, q string, limit, offset int) ([]models.FoundryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where, args := searchWhere(q)
	args = append(args, limit, offset)
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+foundryColumns+` FROM foundries`+where+`
		ORDER BY name COLLATE NOCASE ASC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list foundries: %w", err)
	}
	defer rows.Close()

	out := make([]models.FoundryRecord, 0, limit)
	for rows.Next() {
		f, err := scanFoundry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan foundry: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// All returns every foundry ordered by name.
func (r *Repo) All(ctx context.Context) ([]models.FoundryRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+foundryColumns+` FROM foundries ORDER BY name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("list foundries: %w", err)
	}
	defer rows.Close()

	var out []models.FoundryRecord
	for rows.Next() {
		f, err := scanFoundry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan foundry: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func searchWhere(q string) (string, []any) {
	kw := strings.ToLower(strings.TrimSpace(q))
	if kw == "" {
		return "", nil
	}
	like := "%" + kw + "%"
	return ` WHERE LOWER(name) LIKE ? OR slug LIKE ?`, []any{like, like}
}

// Upsert writes curated records, replacing any existing row with the same slug.
func (r *Repo) Upsert(ctx context.Context, list []models.FoundryRecord) error {
	return r.write(ctx, list, `
		ON CONFLICT(slug) DO UPDATE SET
		  name = excluded.name,
		  handle = excluded.handle,
		  bio = excluded.bio,
		  website = excluded.website,
		  instagram = excluded.instagram,
		  is_foundry = excluded.is_foundry`)
}

// InsertMissing adds records whose slug is not stored yet and leaves
// existing rows alone. Returns how many rows were added.
func (r *Repo) InsertMissing(ctx context.Context, list []models.FoundryRecord) (int, error) {
	before, err := r.Count(ctx, "")
	if err != nil {
		return 0, err
	}
	if err := r.write(ctx, list, `ON CONFLICT(slug) DO NOTHING`); err != nil {
		return 0, err
	}
	after, err := r.Count(ctx, "")
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

func (r *Repo) write(ctx context.Context, list []models.FoundryRecord, conflict string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO foundries (`+foundryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`+conflict)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, f := range list {
		f.Name = strings.TrimSpace(f.Name)
		if f.Slug == "" {
			f.Slug = utils.Slugify(f.Name)
		}
		if f.Slug == "" || f.Name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, f.Slug, f.Name, f.Handle, f.Bio, f.Website, f.Instagram, f.IsFoundry); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", f.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
