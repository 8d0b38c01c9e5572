package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-briefing/pkg/domain"
)

// PostgresStore persists the archive in two tables, issues and day_entries,
// keyed the same way as the JSON documents. Save runs in one transaction,
// which gives the all-or-nothing guarantee the file store gets from
// temp-write-and-rename.
type PostgresStore struct {
	provider DBProvider
}

// NewPostgresStore creates a store over any DBProvider (plain Postgres or
// Supabase).
func NewPostgresStore(provider DBProvider) *PostgresStore {
	return &PostgresStore{provider: provider}
}

// Init creates the schema if it does not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	db := s.provider.DB()
	if db == nil {
		return fmt.Errorf("postgres store: no database handle")
	}

	const schema = `
CREATE TABLE IF NOT EXISTS issues (
	date_key      varchar(10) PRIMARY KEY,
	display_label varchar(64) NOT NULL,
	sources       jsonb NOT NULL
);
CREATE TABLE IF NOT EXISTS day_entries (
	slug          varchar(64) NOT NULL,
	date_key      varchar(10) NOT NULL,
	display_label varchar(64) NOT NULL,
	articles      jsonb NOT NULL,
	PRIMARY KEY (slug, date_key)
);`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

// Load reads the whole archive, newest first.
func (s *PostgresStore) Load(ctx context.Context) (*State, error) {
	db := s.provider.DB()
	if db == nil {
		return nil, fmt.Errorf("postgres store: no database handle")
	}

	st := NewState()

	rows, err := db.QueryContext(ctx,
		`SELECT date_key, display_label, sources FROM issues ORDER BY date_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("load issue index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry IssueEntry
		var sources []byte
		if err := rows.Scan(&entry.DateKey, &entry.DisplayLabel, &sources); err != nil {
			return nil, fmt.Errorf("scan issue row: %w", err)
		}
		if err := json.Unmarshal(sources, &entry.Sources); err != nil {
			return nil, fmt.Errorf("decode issue sources: %w", err)
		}
		st.Issues = append(st.Issues, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue rows: %w", err)
	}

	dayRows, err := db.QueryContext(ctx,
		`SELECT slug, date_key, display_label, articles FROM day_entries ORDER BY date_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("load source archive: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var slug string
		var entry DayEntry
		var articles []byte
		if err := dayRows.Scan(&slug, &entry.DateKey, &entry.DisplayLabel, &articles); err != nil {
			return nil, fmt.Errorf("scan day entry row: %w", err)
		}
		if err := json.Unmarshal(articles, &entry.Articles); err != nil {
			return nil, fmt.Errorf("decode day entry articles: %w", err)
		}
		st.Sources[slug] = append(st.Sources[slug], entry)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day entry rows: %w", err)
	}

	return st, nil
}

// Save upserts every entry inside a single transaction.
func (s *PostgresStore) Save(ctx context.Context, st *State) error {
	db := s.provider.DB()
	if db == nil {
		return fmt.Errorf("postgres store: no database handle")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for slug, entries := range st.Sources {
		for _, entry := range entries {
			articles, err := marshalStories(entry.Articles)
			if err != nil {
				return fmt.Errorf("encode articles for %s/%s: %w", slug, entry.DateKey, err)
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO day_entries (slug, date_key, display_label, articles)
VALUES ($1, $2, $3, $4)
ON CONFLICT (slug, date_key)
DO UPDATE SET display_label = EXCLUDED.display_label, articles = EXCLUDED.articles`,
				slug, entry.DateKey, entry.DisplayLabel, articles); err != nil {
				return fmt.Errorf("upsert day entry %s/%s: %w", slug, entry.DateKey, err)
			}
		}
	}

	for _, issue := range st.Issues {
		sources, err := json.Marshal(issue.Sources)
		if err != nil {
			return fmt.Errorf("encode sources for %s: %w", issue.DateKey, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO issues (date_key, display_label, sources)
VALUES ($1, $2, $3)
ON CONFLICT (date_key)
DO UPDATE SET display_label = EXCLUDED.display_label, sources = EXCLUDED.sources`,
			issue.DateKey, issue.DisplayLabel, sources); err != nil {
			return fmt.Errorf("upsert issue %s: %w", issue.DateKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func marshalStories(stories []domain.Story) ([]byte, error) {
	if stories == nil {
		stories = []domain.Story{}
	}
	return json.Marshal(stories)
}
