package pg

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS models (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	artifact_key TEXT NOT NULL,
	artifact_sha256 TEXT NOT NULL DEFAULT '',
	artifact_size BIGINT NOT NULL DEFAULT 0,
	container_image TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS endpoints (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	model_name TEXT NOT NULL,
	instance_type TEXT NOT NULL,
	status TEXT NOT NULL,
	failure_reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS invocations (
	id SERIAL PRIMARY KEY,
	endpoint_name TEXT NOT NULL,
	request_id TEXT NOT NULL,
	audio_bytes BIGINT NOT NULL DEFAULT 0,
	audio_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	latency_ms BIGINT NOT NULL DEFAULT 0,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`

// PostgresDB implements repository.DeploymentDAO backed by Postgres.
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB connects with the given connection string and ensures the
// registry schema exists.
func NewPostgresDB(connStr string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

// NewPostgresDBWithConn wraps an existing connection (used in tests).
func NewPostgresDBWithConn(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) SaveModel(m *model.Model) error {
	now := time.Now()
	_, err := p.db.Exec(`
		INSERT INTO models (name, artifact_key, artifact_sha256, artifact_size, container_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			artifact_key = EXCLUDED.artifact_key,
			artifact_sha256 = EXCLUDED.artifact_sha256,
			artifact_size = EXCLUDED.artifact_size,
			container_image = EXCLUDED.container_image,
			updated_at = EXCLUDED.updated_at`,
		m.Name, m.ArtifactKey, m.ArtifactSHA256, m.ArtifactSize, m.ContainerImage, now, now)
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", m.Name, err)
	}
	return nil
}

func (p *PostgresDB) GetModelByName(name string) (*model.Model, error) {
	row := p.db.QueryRow(`
		SELECT id, name, artifact_key, artifact_sha256, artifact_size, container_image, created_at, updated_at
		FROM models WHERE name = $1`, name)

	var m model.Model
	err := row.Scan(&m.ID, &m.Name, &m.ArtifactKey, &m.ArtifactSHA256, &m.ArtifactSize,
		&m.ContainerImage, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *PostgresDB) GetAllModels() ([]model.Model, error) {
	rows, err := p.db.Query(`
		SELECT id, name, artifact_key, artifact_sha256, artifact_size, container_image, created_at, updated_at
		FROM models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var models []model.Model
	for rows.Next() {
		var m model.Model
		if err := rows.Scan(&m.ID, &m.Name, &m.ArtifactKey, &m.ArtifactSHA256, &m.ArtifactSize,
			&m.ContainerImage, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (p *PostgresDB) SaveEndpoint(e *model.Endpoint) error {
	now := time.Now()
	_, err := p.db.Exec(`
		INSERT INTO endpoints (name, model_name, instance_type, status, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			model_name = EXCLUDED.model_name,
			instance_type = EXCLUDED.instance_type,
			status = EXCLUDED.status,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at`,
		e.Name, e.ModelName, e.InstanceType, string(e.Status), e.FailureReason, now, now)
	if err != nil {
		return fmt.Errorf("failed to save endpoint %s: %w", e.Name, err)
	}
	return nil
}

func (p *PostgresDB) UpdateEndpointStatus(name string, status model.EndpointStatus, failureReason string) error {
	res, err := p.db.Exec(`
		UPDATE endpoints SET status = $1, failure_reason = $2, updated_at = $3 WHERE name = $4`,
		string(status), failureReason, time.Now(), name)
	if err != nil {
		return fmt.Errorf("failed to update endpoint %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (p *PostgresDB) GetEndpointByName(name string) (*model.Endpoint, error) {
	row := p.db.QueryRow(`
		SELECT id, name, model_name, instance_type, status, failure_reason, created_at, updated_at
		FROM endpoints WHERE name = $1`, name)

	var e model.Endpoint
	var status string
	err := row.Scan(&e.ID, &e.Name, &e.ModelName, &e.InstanceType, &status,
		&e.FailureReason, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = model.EndpointStatus(status)
	return &e, nil
}

func (p *PostgresDB) GetAllEndpoints() ([]model.Endpoint, error) {
	rows, err := p.db.Query(`
		SELECT id, name, model_name, instance_type, status, failure_reason, created_at, updated_at
		FROM endpoints ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []model.Endpoint
	for rows.Next() {
		var e model.Endpoint
		var status string
		if err := rows.Scan(&e.ID, &e.Name, &e.ModelName, &e.InstanceType, &status,
			&e.FailureReason, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		e.Status = model.EndpointStatus(status)
		endpoints = append(endpoints, e)
	}
	return endpoints, rows.Err()
}

func (p *PostgresDB) RecordInvocation(inv *model.Invocation) error {
	_, err := p.db.Exec(`
		INSERT INTO invocations (endpoint_name, request_id, audio_bytes, audio_seconds, transcript, latency_ms, has_error, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.EndpointName, inv.RequestID, inv.AudioBytes, inv.AudioSeconds, inv.Transcript,
		inv.LatencyMs, inv.HasError, inv.ErrorMessage, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

func (p *PostgresDB) GetInvocationsByEndpoint(endpointName string, limit int) ([]model.Invocation, error) {
	rows, err := p.db.Query(`
		SELECT id, endpoint_name, request_id, audio_bytes, audio_seconds, transcript, latency_ms, has_error, error_message, created_at
		FROM invocations WHERE endpoint_name = $1 ORDER BY id DESC LIMIT $2`,
		endpointName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	var invocations []model.Invocation
	for rows.Next() {
		var inv model.Invocation
		if err := rows.Scan(&inv.ID, &inv.EndpointName, &inv.RequestID, &inv.AudioBytes,
			&inv.AudioSeconds, &inv.Transcript, &inv.LatencyMs, &inv.HasError,
			&inv.ErrorMessage, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}
		invocations = append(invocations, inv)
	}
	return invocations, rows.Err()
}
