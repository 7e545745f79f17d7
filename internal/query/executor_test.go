package query

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCommentOnlyQueryDoesNotConnect(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	outcome := executor.Execute(context.Background(), "-- just a comment\n  -- another one\n")

	assert.False(t, outcome.Success)
	assert.Equal(t, EmptyQueryMessage, outcome.Error)
	assert.Empty(t, outcome.Rows)
	// No expectations were registered, so any connection use would fail here.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyQueryDoesNotConnect(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	outcome := executor.Execute(context.Background(), "   \n\t")

	assert.False(t, outcome.Success)
	assert.Equal(t, EmptyQueryMessage, outcome.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCapInjectedForPlainSelect(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT * FROM orders LIMIT 1000").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	outcome := executor.Execute(context.Background(), "SELECT * FROM orders")

	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.RowCount)
	assert.Equal(t, []string{"count"}, outcome.Columns)
	assert.Equal(t, int64(42), outcome.Rows[0]["count"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCapNotDoubleInjected(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	// The statement already carries a limiting clause and must pass through
	// unchanged; the exact-match expectation fails on a second injection.
	mock.ExpectQuery("SELECT * FROM orders LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	outcome := executor.Execute(context.Background(), "SELECT * FROM orders LIMIT 5")

	assert.True(t, outcome.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRowCapNotAppliedToNonSelect(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("UPDATE orders SET shipped = true").
		WillReturnRows(sqlmock.NewRows(nil))

	outcome := executor.Execute(context.Background(), "UPDATE orders SET shipped = true")

	assert.True(t, outcome.Success)
	assert.Equal(t, 0, outcome.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentLinesStrippedBeforeExecution(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT id FROM orders LIMIT 1000").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	outcome := executor.Execute(context.Background(), "-- fetch order ids\nSELECT id FROM orders")

	assert.True(t, outcome.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMultiStatementScriptCombinesRows(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT name FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("alice"))
	mock.ExpectQuery("SELECT name FROM suppliers").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("acme").AddRow("globex"))

	outcome := executor.Execute(context.Background(), "SELECT name FROM customers; SELECT name FROM suppliers;")

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.RowCount)
	// Columns come from the first row-returning statement.
	assert.Equal(t, []string{"name"}, outcome.Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMultiStatementFailurePreservesEarlierResults(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT id FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT FROM broken").
		WillReturnError(errors.New(`syntax error at or near "FROM"`))

	outcome := executor.Execute(context.Background(), "SELECT id FROM orders; SELECT FROM broken")

	// No cross-statement atomicity: statement 1's rows survive the failure.
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "syntax error")
	assert.Equal(t, 1, outcome.RowCount)
	assert.Equal(t, int64(1), outcome.Rows[0]["id"])
	assert.Equal(t, []string{"id"}, outcome.Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutionErrorReturnedAsData(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT * FROM secrets LIMIT 1000").
		WillReturnError(errors.New("permission denied for table secrets"))

	outcome := executor.Execute(context.Background(), "SELECT * FROM secrets")

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "permission denied")
	assert.NotNil(t, outcome.Rows)
	assert.Empty(t, outcome.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByteColumnsDecodedAsStrings(t *testing.T) {
	db, mock := newSQLMock(t)
	executor := NewExecutor(db, 0)

	mock.ExpectQuery("SELECT name FROM customers LIMIT 1000").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow([]byte("alice")))

	outcome := executor.Execute(context.Background(), "SELECT name FROM customers")

	assert.True(t, outcome.Success)
	assert.Equal(t, "alice", outcome.Rows[0]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRowCap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain select", "SELECT * FROM t", "SELECT * FROM t LIMIT 100"},
		{"lowercase select", "select id from t", "select id from t LIMIT 100"},
		{"existing limit", "SELECT * FROM t LIMIT 3", "SELECT * FROM t LIMIT 3"},
		{"lowercase limit", "select * from t limit 3", "select * from t limit 3"},
		{"update untouched", "UPDATE t SET a = 1", "UPDATE t SET a = 1"},
		{"cte untouched", "WITH x AS (SELECT 1) SELECT * FROM x", "WITH x AS (SELECT 1) SELECT * FROM x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyRowCap(tt.in, 100))
		})
	}
}

func TestApplyRowCapIdempotent(t *testing.T) {
	capped := applyRowCap("SELECT * FROM orders", 1000)
	assert.Equal(t, capped, applyRowCap(capped, 1000))
}
