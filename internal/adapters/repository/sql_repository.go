package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

//go:embed schema.sql
var schema string

type SQLRepository struct {
	db *sql.DB
}

var (
	_ ports.EmergencyRequestRepository = (*SQLRepository)(nil)
	_ ports.UserRepository             = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Migrate creates the tables used by the repository if they do not exist.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const requestColumns = `id, user_id, emergency_type, latitude, longitude, location_description, symptoms, details, status, created_at`

func (r *SQLRepository) CreateEmergencyRequest(ctx context.Context, req domain.NewEmergencyRequest) (*domain.EmergencyRequest, error) {
	details := req.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO emergency_requests
			(user_id, emergency_type, latitude, longitude, location_description, symptoms, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+requestColumns,
		req.UserID,
		int(req.EmergencyType),
		req.Latitude,
		req.Longitude,
		req.LocationDescription,
		req.Symptoms,
		payload,
		string(domain.StatusPending),
	)
	return scanRequest(row)
}

func (r *SQLRepository) GetEmergencyRequest(ctx context.Context, id int64) (*domain.EmergencyRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM emergency_requests WHERE id = $1`, id)
	rec, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	return rec, err
}

func (r *SQLRepository) UpdateEmergencyRequestStatus(ctx context.Context, id int64, status domain.Status) (*domain.EmergencyRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE emergency_requests SET status = $2 WHERE id = $1 RETURNING `+requestColumns,
		id, string(status))
	rec, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("emergency request %d: %w", id, domain.ErrNotFound)
	}
	return rec, err
}

func (r *SQLRepository) GetEmergencyRequestsByUserID(ctx context.Context, userID int64) ([]domain.EmergencyRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM emergency_requests WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query requests by user: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.EmergencyRequest, 0)
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests by user: %w", err)
	}
	return requests, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.EmergencyRequest, error) {
	var (
		rec     domain.EmergencyRequest
		status  string
		payload []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.EmergencyType,
		&rec.Latitude,
		&rec.Longitude,
		&rec.LocationDescription,
		&rec.Symptoms,
		&payload,
		&status,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = domain.Status(status)
	rec.Details = map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &rec.Details); err != nil {
			return nil, fmt.Errorf("decode details of request %d: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
