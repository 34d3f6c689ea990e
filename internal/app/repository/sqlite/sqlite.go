package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS models (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	artifact_key TEXT NOT NULL,
	artifact_sha256 TEXT NOT NULL DEFAULT '',
	artifact_size INTEGER NOT NULL DEFAULT 0,
	container_image TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS endpoints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	model_name TEXT NOT NULL,
	instance_type TEXT NOT NULL,
	status TEXT NOT NULL,
	failure_reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS invocations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	endpoint_name TEXT NOT NULL,
	request_id TEXT NOT NULL,
	audio_bytes INTEGER NOT NULL DEFAULT 0,
	audio_seconds REAL NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	latency_ms INTEGER NOT NULL DEFAULT 0,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
`

// SQLiteDB implements repository.DeploymentDAO backed by a local file.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the registry database at dbPath.
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	if err := files.EnsureParentDir(dbPath); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) SaveModel(m *model.Model) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO models (name, artifact_key, artifact_sha256, artifact_size, container_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			artifact_key = excluded.artifact_key,
			artifact_sha256 = excluded.artifact_sha256,
			artifact_size = excluded.artifact_size,
			container_image = excluded.container_image,
			updated_at = excluded.updated_at`,
		m.Name, m.ArtifactKey, m.ArtifactSHA256, m.ArtifactSize, m.ContainerImage, now, now)
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", m.Name, err)
	}
	return nil
}

func (s *SQLiteDB) GetModelByName(name string) (*model.Model, error) {
	row := s.db.QueryRow(`
		SELECT id, name, artifact_key, artifact_sha256, artifact_size, container_image, created_at, updated_at
		FROM models WHERE name = ?`, name)

	var m model.Model
	err := row.Scan(&m.ID, &m.Name, &m.ArtifactKey, &m.ArtifactSHA256, &m.ArtifactSize,
		&m.ContainerImage, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteDB) GetAllModels() ([]model.Model, error) {
	rows, err := s.db.Query(`
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

func (s *SQLiteDB) SaveEndpoint(e *model.Endpoint) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO endpoints (name, model_name, instance_type, status, failure_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			model_name = excluded.model_name,
			instance_type = excluded.instance_type,
			status = excluded.status,
			failure_reason = excluded.failure_reason,
			updated_at = excluded.updated_at`,
		e.Name, e.ModelName, e.InstanceType, string(e.Status), e.FailureReason, now, now)
	if err != nil {
		return fmt.Errorf("failed to save endpoint %s: %w", e.Name, err)
	}
	return nil
}

func (s *SQLiteDB) UpdateEndpointStatus(name string, status model.EndpointStatus, failureReason string) error {
	res, err := s.db.Exec(`
		UPDATE endpoints SET status = ?, failure_reason = ?, updated_at = ? WHERE name = ?`,
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

func (s *SQLiteDB) GetEndpointByName(name string) (*model.Endpoint, error) {
	row := s.db.QueryRow(`
		SELECT id, name, model_name, instance_type, status, failure_reason, created_at, updated_at
		FROM endpoints WHERE name = ?`, name)

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

func (s *SQLiteDB) GetAllEndpoints() ([]model.Endpoint, error) {
	rows, err := s.db.Query(`
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

func (s *SQLiteDB) RecordInvocation(inv *model.Invocation) error {
	_, err := s.db.Exec(`
		INSERT INTO invocations (endpoint_name, request_id, audio_bytes, audio_seconds, transcript, latency_ms, has_error, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.EndpointName, inv.RequestID, inv.AudioBytes, inv.AudioSeconds, inv.Transcript,
		inv.LatencyMs, inv.HasError, inv.ErrorMessage, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetInvocationsByEndpoint(endpointName string, limit int) ([]model.Invocation, error) {
	rows, err := s.db.Query(`
		SELECT id, endpoint_name, request_id, audio_bytes, audio_seconds, transcript, latency_ms, has_error, error_message, created_at
		FROM invocations WHERE endpoint_name = ? ORDER BY id DESC LIMIT ?`,
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
