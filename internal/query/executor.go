package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Outcome is the result of executing generated SQL. Execution failures are
// represented as data rather than errors because the response generator
// downstream needs to explain them to the user in natural language.
type Outcome struct {
	Success  bool             `json:"success"`
	Rows     []map[string]any `json:"data"`
	RowCount int              `json:"row_count"`
	Columns  []string         `json:"columns"`
	Error    string           `json:"error,omitempty"`
}

// EmptyQueryMessage is returned when the generated SQL reduces to nothing
// after comment stripping. Kept distinct from execution errors so the model
// can prompt the user for a more specific question.
const EmptyQueryMessage = "No valid SQL query generated. Please provide a specific business question."

const DefaultMaxRows = 1000

// Executor runs machine-generated SQL against the warehouse with a row cap.
type Executor struct {
	db      *sql.DB
	maxRows int
}

func NewExecutor(db *sql.DB, maxRows int) *Executor {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Executor{db: db, maxRows: maxRows}
}

// Execute runs the given SQL and returns a structured outcome. It never
// returns a Go error; all failure modes are captured in the outcome.
func (e *Executor) Execute(ctx context.Context, sqlText string) Outcome {
	clean := stripLineComments(sqlText)
	if clean == "" {
		slog.Warn("invalid query (comments or empty)", "query", sqlText)
		return Outcome{Success: false, Error: EmptyQueryMessage, Rows: []map[string]any{}}
	}

	statements := splitStatements(clean)

	// The cap rewrite is only safe when there is exactly one statement and it
	// is unambiguously a plain select.
	if len(statements) == 1 {
		statements[0] = applyRowCap(statements[0], e.maxRows)
	}

	var allRows []map[string]any
	var columns []string

	for _, stmt := range statements {
		slog.Info("executing statement", "statement", stmt)

		rows, cols, err := e.executeStatement(ctx, stmt)
		if len(cols) > 0 && len(columns) == 0 {
			columns = cols
		}
		allRows = append(allRows, rows...)
		if err != nil {
			slog.Error("query execution failed", "error", err)
			if allRows == nil {
				allRows = []map[string]any{}
			}
			return Outcome{Success: false, Error: err.Error(), Rows: allRows, RowCount: len(allRows), Columns: columns}
		}
	}

	if allRows == nil {
		allRows = []map[string]any{}
	}
	return Outcome{Success: true, Rows: allRows, RowCount: len(allRows), Columns: columns}
}

// executeStatement runs a single statement on a dedicated connection. The
// connection is returned to the pool before the next statement runs, so a
// statement that corrupts its connection state cannot poison later ones.
// The cost is that multi-statement scripts are not atomic.
func (e *Executor) executeStatement(ctx context.Context, stmt string) ([]map[string]any, []string, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error acquiring connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, stmt)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var collected []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		targets := make([]any, len(cols))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return collected, cols, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return collected, cols, err
	}

	return collected, cols, nil
}

// stripLineComments drops lines whose first non-whitespace characters are a
// SQL line comment marker and trims the remainder.
func stripLineComments(sqlText string) string {
	lines := strings.Split(sqlText, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func splitStatements(sqlText string) []string {
	parts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

var limitClause = regexp.MustCompile(`(?i)\blimit\b`)

// applyRowCap appends a LIMIT clause to a plain select that does not already
// carry one. Anything that is not type-inspectable as a top-level select is
// left untouched. Postgres dialect only.
func applyRowCap(stmt string, maxRows int) string {
	trimmed := strings.TrimSpace(stmt)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return stmt
	}
	if limitClause.MatchString(trimmed) {
		return stmt
	}
	return fmt.Sprintf("%s LIMIT %d", trimmed, maxRows)
}
