package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// leadsTable is reported as "collection" in responses for continuity with
// the feeds that write into it.
const leadsTable = "leads"

const leadColumns = "id, created_at, lead_type_norm, state, zip_code, zip5, status, full_name, phone, email, city"

// bucketCase classifies a row by days since creation. First match wins, so
// the ranges nest the same way the age buckets do.
const bucketCase = `CASE
		WHEN days_since <= 3 THEN 'YESTERDAY_72H'
		WHEN days_since <= 14 THEN 'DAYS_4_14'
		WHEN days_since <= 30 THEN 'DAYS_15_30'
		WHEN days_since <= 90 THEN 'DAYS_31_90'
		ELSE 'DAYS_91_PLUS'
	END`

type LeadStore struct {
	db *sql.DB
}

// OpenLeadStore opens (creating if needed) the sqlite lead inventory. WAL
// mode because two worker processes share the file.
func OpenLeadStore(path string) (*LeadStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	schema := `CREATE TABLE IF NOT EXISTS leads(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		lead_type_norm TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		zip5 TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT ''
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LeadStore{db: db}, nil
}

func (s *LeadStore) Close() error { return s.db.Close() }

// Insert stores a lead and fills in its assigned id.
func (s *LeadStore) Insert(ctx context.Context, l *Lead) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO leads
		(created_at, lead_type_norm, state, zip_code, zip5, status, full_name, phone, email, city)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		l.CreatedAt.UTC().Format(time.RFC3339),
		l.LeadTypeNorm, l.State, l.ZipCode, l.Zip5, l.Status,
		l.FullName, l.Phone, l.Email, l.City)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// Count reports the number of leads in inventory.
func (s *LeadStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	return n, err
}

// LeadTypes returns the sorted distinct normalized lead types present in
// inventory, with empties dropped.
func (s *LeadStore) LeadTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lead_type_norm FROM leads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		v = normType(v)
		if v == "" {
			continue
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(items)
	return items, nil
}

// Sample returns any one lead, or nil when inventory is empty.
func (s *LeadStore) Sample(ctx context.Context) (*Lead, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads LIMIT 1`)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

type SearchResult struct {
	Total int
	Items []SearchItem
}

// Search ranks the whole inventory by boost score and paginates after
// sorting. Boost selectors never exclude rows; only only_available does.
func (s *LeadStore) Search(ctx context.Context, req SearchRequest, pricing PricingTable, now time.Time) (*SearchResult, error) {
	boostType := normType(req.LeadTypeNorm)
	boostState := normState(req.State)
	boostZip := normZip(req.Zip)
	boostBucket := normBucket(req.Bucket)

	base := ""
	var baseArgs []any
	if req.OnlyAvailable {
		base = " WHERE status = ?"
		baseArgs = append(baseArgs, "Available")
	}

	// Available rows always float slightly; the selector boosts stack on top.
	score := []string{"CASE WHEN status = 'Available' THEN 10 ELSE 0 END"}
	var scoreArgs []any
	if boostType != "" {
		score = append(score, "CASE WHEN lead_type_norm = ? THEN 100 ELSE 0 END")
		scoreArgs = append(scoreArgs, boostType)
	}
	if boostState != "" {
		score = append(score, "CASE WHEN state = ? THEN 50 ELSE 0 END")
		scoreArgs = append(scoreArgs, boostState)
	}
	if boostZip != "" {
		score = append(score, "CASE WHEN zip5 = ? OR zip_code = ? THEN 30 ELSE 0 END")
		scoreArgs = append(scoreArgs, boostZip, boostZip)
	}
	if boostBucket != bucketAll {
		score = append(score, "CASE WHEN bucket = ? THEN 20 ELSE 0 END")
		scoreArgs = append(scoreArgs, boostBucket)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+base, baseArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}

	query := fmt.Sprintf(`WITH aged AS (
		SELECT %s,
			CAST((strftime('%%s', ?) - strftime('%%s', created_at)) / 86400 AS INTEGER) AS days_since
		FROM leads%s
	), bucketed AS (
		SELECT *, %s AS bucket FROM aged
	)
	SELECT %s, bucket, (%s) AS score
	FROM bucketed
	ORDER BY score DESC, created_at DESC
	LIMIT ? OFFSET ?`,
		leadColumns, base, bucketCase, leadColumns, strings.Join(score, " + "))

	args := make([]any, 0, len(baseArgs)+len(scoreArgs)+3)
	args = append(args, now.UTC().Format(time.RFC3339))
	args = append(args, baseArgs...)
	args = append(args, scoreArgs...)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranking leads: %w", err)
	}
	defer rows.Close()

	items := []SearchItem{}
	for rows.Next() {
		var (
			item      SearchItem
			createdAt string
			rowScore  int
		)
		if err := rows.Scan(&item.ID, &createdAt, &item.LeadTypeNorm, &item.State,
			&item.ZipCode, &item.Zip5, &item.Status, &item.FullName, &item.Phone,
			&item.Email, &item.City, &item.ComputedBucket, &rowScore); err != nil {
			return nil, err
		}
		item.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}
		item.Price = pricing.PriceFor(item.LeadTypeNorm, item.ComputedBucket)
		item.CaboomRetail = pricing.RetailFor(item.LeadTypeNorm)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &SearchResult{Total: total, Items: items}, nil
}

func scanLead(row *sql.Row) (*Lead, error) {
	var (
		l         Lead
		createdAt string
	)
	if err := row.Scan(&l.ID, &createdAt, &l.LeadTypeNorm, &l.State, &l.ZipCode,
		&l.Zip5, &l.Status, &l.FullName, &l.Phone, &l.Email, &l.City); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	l.CreatedAt = parsed
	return &l, nil
}
