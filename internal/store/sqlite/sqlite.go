// Package sqlite implements the store.Store interface on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/abwagner/nj-affordable-housing/internal/model"
	"github.com/abwagner/nj-affordable-housing/internal/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS municipalities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	county TEXT,
	official_website TEXT,
	population INTEGER
);

CREATE TABLE IF NOT EXISTS commitments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	municipality_id INTEGER NOT NULL,
	commitment_type TEXT,
	total_units INTEGER,
	low_income_units INTEGER,
	moderate_income_units INTEGER,
	very_low_income_units INTEGER,
	senior_units INTEGER,
	family_units INTEGER,
	rental_units INTEGER,
	for_sale_units INTEGER,
	rehabilitation_units INTEGER,
	deadline TEXT,
	project_name TEXT,
	project_names TEXT,
	addresses TEXT,
	source_document_url TEXT,
	source_document_type TEXT,
	confidence REAL,
	notes TEXT,
	created_at TEXT DEFAULT (datetime('now')),
	FOREIGN KEY(municipality_id) REFERENCES municipalities(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_commitments_muni ON commitments(municipality_id);

CREATE TABLE IF NOT EXISTS scraped_pages (
	url TEXT PRIMARY KEY,
	page_type TEXT,
	scraped_at TEXT DEFAULT (datetime('now'))
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *sqliteStore) InsertMunicipality(ctx context.Context, m store.Municipality) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO municipalities (name, county, official_website, population)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			county = COALESCE(NULLIF(excluded.county, ''), county),
			official_website = COALESCE(NULLIF(excluded.official_website, ''), official_website)`,
		m.Name, m.County, m.OfficialWebsite, m.Population)
	if err != nil {
		return 0, fmt.Errorf("insert municipality %q: %w", m.Name, err)
	}
	existing, err := s.GetMunicipality(ctx, m.Name)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func (s *sqliteStore) BulkInsertMunicipalities(ctx context.Context, ms []store.Municipality) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for _, m := range ms {
		if m.Name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO municipalities (name, county, official_website, population)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				official_website = COALESCE(NULLIF(excluded.official_website, ''), official_website)`,
			m.Name, m.County, m.OfficialWebsite, m.Population); err != nil {
			return count, fmt.Errorf("bulk insert %q: %w", m.Name, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, err
	}
	return count, nil
}

func (s *sqliteStore) GetMunicipality(ctx context.Context, name string) (*store.Municipality, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(county, ''), COALESCE(official_website, ''), COALESCE(population, 0)
		FROM municipalities WHERE name = ?`, name)

	var m store.Municipality
	if err := row.Scan(&m.ID, &m.Name, &m.County, &m.OfficialWebsite, &m.Population); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("municipality %q not found", name)
		}
		return nil, err
	}
	return &m, nil
}

func (s *sqliteStore) ListMunicipalities(ctx context.Context) ([]store.Municipality, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(county, ''), COALESCE(official_website, ''), COALESCE(population, 0)
		FROM municipalities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms []store.Municipality
	for rows.Next() {
		var m store.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.County, &m.OfficialWebsite, &m.Population); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func (s *sqliteStore) UpdateMunicipalityWebsite(ctx context.Context, name, website string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE municipalities SET official_website = ? WHERE name = ?`, website, name)
	return err
}

func (s *sqliteStore) InsertCommitmentIfNew(ctx context.Context, municipalityID int64, rec *model.CommitmentRecord) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM commitments
		WHERE municipality_id = ? AND COALESCE(source_document_url, '') = ?`,
		municipalityID, rec.SourceURL).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check commitment: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO commitments (
			municipality_id, commitment_type,
			total_units, low_income_units, moderate_income_units,
			very_low_income_units, senior_units, family_units,
			rental_units, for_sale_units, rehabilitation_units,
			deadline, project_name, project_names, addresses,
			source_document_url, source_document_type, confidence, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		municipalityID, nullStr(rec.CommitmentType),
		rec.TotalUnits, rec.LowIncomeUnits, rec.ModerateIncomeUnits,
		rec.VeryLowIncomeUnits, rec.SeniorUnits, rec.FamilyUnits,
		rec.RentalUnits, rec.ForSaleUnits, rec.RehabilitationUnits,
		nullStr(rec.Deadline), nullStr(rec.FirstProjectName()),
		nullStr(strings.Join(rec.ProjectNames, "; ")),
		nullStr(strings.Join(rec.Addresses, "; ")),
		rec.SourceURL, nullStr(rec.SourceDocumentType), rec.Confidence,
		nullStr(store.TruncateSnippet(rec.RawTextSnippet)))
	if err != nil {
		return false, fmt.Errorf("insert commitment: %w", err)
	}
	return true, nil
}

func (s *sqliteStore) ListCommitments(ctx context.Context, municipality string) ([]store.Commitment, error) {
	query := `
		SELECT c.id, c.municipality_id, m.name,
			COALESCE(c.commitment_type, ''),
			c.total_units, c.low_income_units, c.moderate_income_units,
			c.very_low_income_units, c.senior_units, c.family_units,
			c.rental_units, c.for_sale_units, c.rehabilitation_units,
			COALESCE(c.deadline, ''), COALESCE(c.project_name, ''),
			COALESCE(c.project_names, ''), COALESCE(c.addresses, ''),
			COALESCE(c.source_document_url, ''), COALESCE(c.source_document_type, ''),
			COALESCE(c.confidence, 0), COALESCE(c.notes, ''), c.created_at
		FROM commitments c JOIN municipalities m ON m.id = c.municipality_id`
	args := []any{}
	if municipality != "" {
		query += ` WHERE m.name = ?`
		args = append(args, municipality)
	}
	query += ` ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Commitment
	for rows.Next() {
		var c store.Commitment
		var names, addrs string
		if err := rows.Scan(
			&c.ID, &c.MunicipalityID, &c.Record.Municipality,
			&c.Record.CommitmentType,
			&c.Record.TotalUnits, &c.Record.LowIncomeUnits, &c.Record.ModerateIncomeUnits,
			&c.Record.VeryLowIncomeUnits, &c.Record.SeniorUnits, &c.Record.FamilyUnits,
			&c.Record.RentalUnits, &c.Record.ForSaleUnits, &c.Record.RehabilitationUnits,
			&c.Record.Deadline, &c.Record.ProjectName,
			&names, &addrs,
			&c.Record.SourceURL, &c.Record.SourceDocumentType,
			&c.Record.Confidence, &c.Record.RawTextSnippet, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		if names != "" {
			c.Record.ProjectNames = strings.Split(names, "; ")
		}
		if addrs != "" {
			c.Record.Addresses = strings.Split(addrs, "; ")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) RecordScrapedPage(ctx context.Context, url, pageType string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scraped_pages (url, page_type, scraped_at)
		VALUES (?, ?, datetime('now'))`, url, pageType)
	return err
}

func (s *sqliteStore) IsPageScraped(ctx context.Context, url string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM scraped_pages WHERE url = ?`, url).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteStore) Stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM municipalities`).Scan(&st.Municipalities); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM commitments`).Scan(&st.Commitments); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM scraped_pages`).Scan(&st.ScrapedPages); err != nil {
		return st, err
	}
	return st, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
