package pg

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
)

// TestPostgresDB_Interface verifies PostgresDB implements DeploymentDAO.
func TestPostgresDB_Interface(t *testing.T) {
	var _ repository.DeploymentDAO = (*PostgresDB)(nil)
}

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDBWithConn(db), mock
}

func TestPostgresDB_SaveModel(t *testing.T) {
	pgdb, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO models")).
		WithArgs("parakeet-rnnt", "models/parakeet-rnnt/model.tar.gz", "abc123",
			int64(42), "pytorch-inference:2.4", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := pgdb.SaveModel(&model.Model{
		Name:           "parakeet-rnnt",
		ArtifactKey:    "models/parakeet-rnnt/model.tar.gz",
		ArtifactSHA256: "abc123",
		ArtifactSize:   42,
		ContainerImage: "pytorch-inference:2.4",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetModelByName(t *testing.T) {
	pgdb, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "name", "artifact_key", "artifact_sha256", "artifact_size",
		"container_image", "created_at", "updated_at",
	}).AddRow(1, "parakeet-rnnt", "models/parakeet-rnnt/model.tar.gz", "abc123",
		int64(42), "pytorch-inference:2.4", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, artifact_key")).
		WithArgs("parakeet-rnnt").
		WillReturnRows(rows)

	m, err := pgdb.GetModelByName("parakeet-rnnt")
	require.NoError(t, err)
	assert.Equal(t, "parakeet-rnnt", m.Name)
	assert.Equal(t, int64(42), m.ArtifactSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetModelByName_NotFound(t *testing.T) {
	pgdb, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, artifact_key")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := pgdb.GetModelByName("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostgresDB_UpdateEndpointStatus(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		execErr     error
		expectError bool
		wantNoRows  bool
	}{
		{name: "updated", affected: 1},
		{name: "missing_endpoint", affected: 0, wantNoRows: true},
		{name: "exec_error", execErr: errors.New("connection lost"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgdb, mock := newMockDB(t)

			exp := mock.ExpectExec(regexp.QuoteMeta("UPDATE endpoints SET status")).
				WithArgs("InService", "", sqlmock.AnyArg(), "parakeet-demo")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := pgdb.UpdateEndpointStatus("parakeet-demo", model.EndpointInService, "")
			switch {
			case tt.wantNoRows:
				assert.ErrorIs(t, err, sql.ErrNoRows)
			case tt.expectError:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresDB_GetInvocationsByEndpoint(t *testing.T) {
	pgdb, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "endpoint_name", "request_id", "audio_bytes", "audio_seconds",
		"transcript", "latency_ms", "has_error", "error_message", "created_at",
	}).
		AddRow(2, "parakeet-demo", "req-2", int64(32000), 1.0, "hello", int64(15), 0, "", now).
		AddRow(1, "parakeet-demo", "req-1", int64(16000), 0.5, "", int64(3), 1, "bad audio", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, endpoint_name, request_id")).
		WithArgs("parakeet-demo", 10).
		WillReturnRows(rows)

	invocations, err := pgdb.GetInvocationsByEndpoint("parakeet-demo", 10)
	require.NoError(t, err)
	require.Len(t, invocations, 2)
	assert.Equal(t, "hello", invocations[0].Transcript)
	assert.Equal(t, 1, invocations[1].HasError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
