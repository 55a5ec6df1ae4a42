package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/formworks/submission-service/internal/config"
	"github.com/formworks/submission-service/internal/types"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS submissions (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		photo_urls TEXT[] NOT NULL DEFAULT '{}',
		video_urls TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := p.Db.Exec(query)
	return err
}

func (p *Postgres) SaveSubmission(ctx context.Context, record *types.SubmissionRecord) (*types.SubmissionRecord, error) {
	query := `
	INSERT INTO submissions (name, address, photo_urls, video_urls)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`

	var id int
	saved := *record
	err := p.Db.QueryRowContext(ctx, query,
		record.Name, record.Address, pq.Array(record.PhotoURLs), pq.Array(record.VideoURLs),
	).Scan(&id, &saved.CreatedAt)
	if err != nil {
		return nil, err
	}

	saved.ID = fmt.Sprintf("%d", id)
	return &saved, nil
}

func (p *Postgres) ListSubmissions(ctx context.Context) ([]types.SubmissionRecord, error) {
	query := `
	SELECT id, name, address, photo_urls, video_urls, created_at
	FROM submissions
	ORDER BY created_at DESC
	`

	rows, err := p.Db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.SubmissionRecord
	for rows.Next() {
		var rec types.SubmissionRecord
		var id int
		err := rows.Scan(&id, &rec.Name, &rec.Address,
			pq.Array(&rec.PhotoURLs), pq.Array(&rec.VideoURLs), &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.ID = fmt.Sprintf("%d", id)
		records = append(records, rec)
	}

	return records, rows.Err()
}
