package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/viant/scy/cred/secret"
)

// DefaultQuery selects the two columns every corpus table must expose.
const DefaultQuery = "SELECT id, content FROM documents"

// SQLSource streams documents from any database/sql driver (sqlite,
// bigquery, mysql, postgres are registered by the CLI).
type SQLSource struct {
	db   *sql.DB
	rows *sql.Rows
}

// NewSQLSource opens driver/dsn and runs query (DefaultQuery when empty).
// The query must project an id column followed by a content column.
func NewSQLSource(ctx context.Context, driver, dsn, query string) (*SQLSource, error) {
	if query == "" {
		query = DefaultQuery
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %v: %w", driver, err)
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("corpus: query %q: %w", query, err)
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		_ = db.Close()
		return nil, err
	}
	if len(columns) < 2 {
		_ = rows.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%w: query %q projected %v", ErrMissingColumn, query, columns)
	}
	return &SQLSource{db: db, rows: rows}, nil
}

// Next scans the next row; nil content is recovered as empty.
func (s *SQLSource) Next(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return Document{}, err
		}
		return Document{}, io.EOF
	}
	var id string
	var content sql.NullString
	if err := s.rows.Scan(&id, &content); err != nil {
		return Document{}, fmt.Errorf("corpus: scan: %w", err)
	}
	return Document{ID: id, Content: content.String}, nil
}

// Close releases the rows and the database handle.
func (s *SQLSource) Close() error {
	err := s.rows.Close()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("corpus: secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
