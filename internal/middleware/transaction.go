// Gesco | 2026
// transaction.go

package middleware

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/gesco-cm/gesco/internal/core"
)

// Transaction scopes one database transaction to one request: begin on
// entry, commit when the handler chain produced a success response, roll
// back on any error response or panic. Handlers never commit or roll back
// themselves; they reach the transaction through core.Querier.
//
// The response is buffered until the commit decision is made, so a failing
// commit can still be reported as an internal error instead of a success
// the database never applied.
func Transaction(db *sqlx.DB) func(http.Handler) http.Handler {
	return transactionWith(func(ctx context.Context) (committer, *sqlx.Tx, error) {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, nil, err
		}
		return tx, tx, nil
	})
}

// committer is the lifecycle half of *sqlx.Tx, split out so the
// commit/rollback protocol is testable without a database.
type committer interface {
	Commit() error
	Rollback() error
}

type beginTxFunc func(ctx context.Context) (committer, *sqlx.Tx, error)

func transactionWith(begin beginTxFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, sqlxTx, err := begin(r.Context())
			if err != nil {
				core.InternalServerError(
					w,
					fmt.Errorf("begin request transaction: %w", err),
				)
				return
			}

			buf := newBufferedResponse()
			ctx := core.WithTx(r.Context(), sqlxTx)

			panicked := true
			defer func() {
				if panicked {
					//nolint:errcheck // best-effort rollback before re-panic
					_ = tx.Rollback()
				}
			}()

			next.ServeHTTP(buf, r.WithContext(ctx))
			panicked = false

			if buf.status >= http.StatusBadRequest {
				if rbErr := tx.Rollback(); rbErr != nil {
					slog.Error("request rollback failed", "error", rbErr)
				}
				buf.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				core.InternalServerError(
					w,
					fmt.Errorf("commit request transaction: %w", err),
				)
				return
			}

			buf.flush(w)
		})
	}
}

type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) flush(w http.ResponseWriter) {
	h := w.Header()
	for key, values := range b.header {
		for _, value := range values {
			h.Add(key, value)
		}
	}

	w.WriteHeader(b.status)

	if b.body.Len() > 0 {
		//nolint:errcheck // best-effort response write
		_, _ = w.Write(b.body.Bytes())
	}
}
