package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
)

func TestSQLiteDB_Interface(t *testing.T) {
	var _ repository.DeploymentDAO = (*SQLiteDB)(nil)
}

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteDB_ModelUpsert(t *testing.T) {
	db := newTestDB(t)

	m := &model.Model{
		Name:           "parakeet-rnnt",
		ArtifactKey:    "models/parakeet-rnnt/model.tar.gz",
		ArtifactSHA256: "abc123",
		ArtifactSize:   42,
		ContainerImage: "pytorch-inference:2.4",
	}
	require.NoError(t, db.SaveModel(m))

	got, err := db.GetModelByName("parakeet-rnnt")
	require.NoError(t, err)
	assert.Equal(t, m.ArtifactKey, got.ArtifactKey)
	assert.Equal(t, m.ArtifactSHA256, got.ArtifactSHA256)

	// Re-registering the same name updates the record in place.
	m.ArtifactSHA256 = "def456"
	require.NoError(t, db.SaveModel(m))

	got, err = db.GetModelByName("parakeet-rnnt")
	require.NoError(t, err)
	assert.Equal(t, "def456", got.ArtifactSHA256)

	models, err := db.GetAllModels()
	require.NoError(t, err)
	assert.Len(t, models, 1)
}

func TestSQLiteDB_ModelNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetModelByName("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSQLiteDB_EndpointLifecycle(t *testing.T) {
	db := newTestDB(t)

	e := &model.Endpoint{
		Name:         "parakeet-demo",
		ModelName:    "parakeet-rnnt",
		InstanceType: "ml.g5.xlarge",
		Status:       model.EndpointCreating,
	}
	require.NoError(t, db.SaveEndpoint(e))

	require.NoError(t, db.UpdateEndpointStatus("parakeet-demo", model.EndpointInService, ""))

	got, err := db.GetEndpointByName("parakeet-demo")
	require.NoError(t, err)
	assert.Equal(t, model.EndpointInService, got.Status)

	require.NoError(t, db.UpdateEndpointStatus("parakeet-demo", model.EndpointFailed, "artifact checksum mismatch"))
	got, err = db.GetEndpointByName("parakeet-demo")
	require.NoError(t, err)
	assert.Equal(t, model.EndpointFailed, got.Status)
	assert.Equal(t, "artifact checksum mismatch", got.FailureReason)

	endpoints, err := db.GetAllEndpoints()
	require.NoError(t, err)
	assert.Len(t, endpoints, 1)
}

func TestSQLiteDB_UpdateMissingEndpoint(t *testing.T) {
	db := newTestDB(t)
	err := db.UpdateEndpointStatus("missing", model.EndpointInService, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSQLiteDB_Invocations(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.RecordInvocation(&model.Invocation{
			EndpointName: "parakeet-demo",
			RequestID:    "req",
			AudioBytes:   32000,
			AudioSeconds: 1.0,
			Transcript:   "hello",
			LatencyMs:    12,
		}))
	}
	require.NoError(t, db.RecordInvocation(&model.Invocation{
		EndpointName: "other",
		RequestID:    "req",
		HasError:     1,
		ErrorMessage: "bad audio",
	}))

	invocations, err := db.GetInvocationsByEndpoint("parakeet-demo", 10)
	require.NoError(t, err)
	assert.Len(t, invocations, 3)

	limited, err := db.GetInvocationsByEndpoint("parakeet-demo", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
