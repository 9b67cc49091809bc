package fonts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fontpair/internal/catalog"
	"fontpair/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

var _ catalog.Provider = (*Repo)(nil)

type ListQuery struct {
	Q        string          // substring of family
	Category models.Category // exact
	Foundry  string          // foundry slug
	Sort     string          // alpha | popularity | trending | date
	Limit    int
	Offset   int
}

const (
	SortAlpha      = "alpha"
	SortPopularity = "popularity"
	SortTrending   = "trending"
	SortDate       = "date"

	defaultLimit = 20
	maxLimit     = 100
)

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const fontColumns = `family, category, weights, foundry, foundry_slug, legibility,
	designers, popularity, trending, date_added, last_modified, classifications, subsets, variants`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFont(s rowScanner) (models.Font, error) {
	var (
		f                                       models.Font
		weights, designers, classes, subs, vars string
	)
	if err := s.Scan(
		&f.Family, &f.Category, &weights, &f.Foundry, &f.FoundrySlug, &f.Legibility,
		&designers, &f.Popularity, &f.Trending, &f.DateAdded, &f.LastModified, &classes, &subs, &vars,
	); err != nil {
		return models.Font{}, err
	}

	_ = json.Unmarshal([]byte(weights), &f.Weights)
	_ = json.Unmarshal([]byte(designers), &f.Designers)
	_ = json.Unmarshal([]byte(classes), &f.Classifications)
	_ = json.Unmarshal([]byte(subs), &f.Subsets)
	_ = json.Unmarshal([]byte(vars), &f.Variants)
	return f, nil
}

func (r *Repo) GetByFamily(ctx context.Context, family string) (*models.Font, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+fontColumns+` FROM fonts WHERE family = ?`, family)
	f, err := scanFont(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByFamily: %w", err)
	}
	return &f, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

// CountAll is the size of the whole catalog.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, ListQuery{})
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Font, error) {
	sqlStr, args := buildListSQL(q, false)
	return r.query(ctx, sqlStr, args...)
}

// All returns every font in catalog order (alphabetical by family).
func (r *Repo) All(ctx context.Context) ([]models.Font, error) {
	return r.query(ctx, `SELECT `+fontColumns+` FROM fonts ORDER BY family ASC`)
}

func (r *Repo) AllFonts(ctx context.Context) ([]models.FontRecord, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return models.Records(all), nil
}

func (r *Repo) FontsByFoundry(ctx context.Context, slug string) ([]models.FontRecord, error) {
	fonts, err := r.ListByFoundry(ctx, slug)
	if err != nil {
		return nil, err
	}
	return models.Records(fonts), nil
}

func (r *Repo) ListByFoundry(ctx context.Context, slug string) ([]models.Font, error) {
	return r.query(ctx, `SELECT `+fontColumns+` FROM fonts WHERE foundry_slug = ? ORDER BY family ASC`, slug)
}

func (r *Repo) query(ctx context.Context, sqlStr string, args ...any) ([]models.Font, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.Font
	for rows.Next() {
		f, err := scanFont(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces fonts keyed by family. Each record is
// normalized first, so the stored foundry_slug always matches foundry.
func (r *Repo) Upsert(ctx context.Context, fonts []models.Font) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fonts (`+fontColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(family) DO UPDATE SET
		  category = excluded.category,
		  weights = excluded.weights,
		  foundry = excluded.foundry,
		  foundry_slug = excluded.foundry_slug,
		  legibility = excluded.legibility,
		  designers = excluded.designers,
		  popularity = excluded.popularity,
		  trending = excluded.trending,
		  date_added = excluded.date_added,
		  last_modified = excluded.last_modified,
		  classifications = excluded.classifications,
		  subsets = excluded.subsets,
		  variants = excluded.variants,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, f := range fonts {
		f.Normalize()
		if err := f.Valid(); err != nil {
			return fmt.Errorf("upsert %q: %w", f.Family, err)
		}

		if _, err := stmt.ExecContext(ctx,
			f.Family,
			string(f.Category),
			jsonArray(f.Weights),
			f.Foundry,
			f.FoundrySlug,
			string(f.Legibility),
			jsonArray(f.Designers),
			f.Popularity,
			f.Trending,
			f.DateAdded,
			f.LastModified,
			jsonArray(f.Classifications),
			jsonArray(f.Subsets),
			jsonArray(f.Variants),
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", f.Family, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM fonts`)
	if err != nil {
		return 0, fmt.Errorf("delete fonts: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func jsonArray[T any](v []T) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + fontColumns + ` FROM fonts`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM fonts`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "LOWER(family) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(strings.ToLower(kw))+"%")
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(q.Category))
	}
	if slug := strings.TrimSpace(q.Foundry); slug != "" {
		where = append(where, "foundry_slug = ?")
		args = append(args, slug)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY " + orderBy(q.Sort)
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, clampLimit(q.Limit), max(q.Offset, 0))
	}

	return sqlStr, args
}

func orderBy(sort string) string {
	switch sort {
	case SortPopularity:
		// popularity is a rank: 1 is the most used; unranked rows go last
		return "popularity = 0, popularity ASC, family ASC"
	case SortTrending:
		return "trending = 0, trending ASC, family ASC"
	case SortDate:
		return "date_added DESC, family ASC"
	default:
		return "family ASC"
	}
}

// ValidSort reports whether s is a supported sort key; empty means alpha.
func ValidSort(s string) bool {
	switch s {
	case "", SortAlpha, SortPopularity, SortTrending, SortDate:
		return true
	}
	return false
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
