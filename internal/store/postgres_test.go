package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiance-crm/loyalty-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "/data/plannings", "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := st.CreateRun(context.Background(), "/data/plannings")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET").
		WithArgs("complete", "", pgxmock.AnyArg(), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.CompleteRun(context.Background(), "run-1", model.RunStatusComplete, model.RunStats{LoyalRecords: 2}, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET").
		WithArgs("failed", "boom", pgxmock.AnyArg(), pgxmock.AnyArg(), "absent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.CompleteRun(context.Background(), "absent", model.RunStatusFailed, model.RunStats{}, "boom")
	assert.Error(t, err)
}

func TestPostgresStore_GetRun(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now().UTC()
	errMsg := ""
	mock.ExpectQuery("SELECT id, input_dir, status, error, stats, created_at, updated_at FROM runs WHERE").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "input_dir", "status", "error", "stats", "created_at", "updated_at"}).
			AddRow("run-1", "/data", model.RunStatusComplete, &errMsg, []byte(`{"files_found":2,"loyal_records":1}`), now, now))

	run, err := st.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 2, run.Stats.FilesFound)
	assert.Equal(t, 1, run.Stats.LoyalRecords)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now().UTC()
	errMsg := ""
	mock.ExpectQuery("SELECT id, input_dir, status, error, stats, created_at, updated_at FROM runs").
		WithArgs("complete", 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "input_dir", "status", "error", "stats", "created_at", "updated_at"}).
			AddRow("run-1", "/a", model.RunStatusComplete, &errMsg, []byte(`{}`), now, now).
			AddRow("run-2", "/b", model.RunStatusComplete, &errMsg, []byte(`{}`), now, now))

	runs, err := st.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
