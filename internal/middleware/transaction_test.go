// Gesco | 2026
// transaction_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jmoiron/sqlx"
)

type fakeTx struct {
	commits   int
	rollbacks int
	commitErr error
}

func (f *fakeTx) Commit() error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rollbacks++
	return nil
}

func beginFake(tx *fakeTx) beginTxFunc {
	return func(context.Context) (committer, *sqlx.Tx, error) {
		return tx, nil, nil
	}
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "200", status: http.StatusOK},
		{name: "201", status: http.StatusCreated},
		{name: "204", status: http.StatusNoContent},
		{name: "302", status: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			tx := &fakeTx{}
			handler := transactionWith(beginFake(tx))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}),
			)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

			c.Assert(tx.commits, qt.Equals, 1)
			c.Assert(tx.rollbacks, qt.Equals, 0)
			c.Assert(rec.Code, qt.Equals, tt.status)
		})
	}
}

func TestTransactionRollsBackOnErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "400", status: http.StatusBadRequest},
		{name: "403", status: http.StatusForbidden},
		{name: "409", status: http.StatusConflict},
		{name: "500", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			tx := &fakeTx{}
			handler := transactionWith(beginFake(tx))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}),
			)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

			c.Assert(tx.commits, qt.Equals, 0)
			c.Assert(tx.rollbacks, qt.Equals, 1)
			c.Assert(rec.Code, qt.Equals, tt.status)
		})
	}
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	c := qt.New(t)

	tx := &fakeTx{}
	handler := transactionWith(beginFake(tx))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("handler exploded")
		}),
	)

	rec := httptest.NewRecorder()
	func() {
		defer func() {
			c.Assert(recover(), qt.IsNotNil)
		}()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	}()

	c.Assert(tx.commits, qt.Equals, 0)
	c.Assert(tx.rollbacks, qt.Equals, 1)
}

// A buffered success response must not leak when the commit fails; the
// client sees an internal error instead.
func TestTransactionCommitFailure(t *testing.T) {
	c := qt.New(t)

	tx := &fakeTx{commitErr: errors.New("deadlock detected")}
	handler := transactionWith(beginFake(tx))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			//nolint:errcheck // test handler
			_, _ = w.Write([]byte(`{"id":1}`))
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	c.Assert(tx.commits, qt.Equals, 1)
	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)
	c.Assert(rec.Body.String(), qt.Contains, "Erreur interne du serveur")
}

func TestTransactionBeginFailure(t *testing.T) {
	c := qt.New(t)

	begin := func(context.Context) (committer, *sqlx.Tx, error) {
		return nil, nil, errors.New("connection refused")
	}

	called := false
	handler := transactionWith(begin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	c.Assert(called, qt.IsFalse)
	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)
}

func TestTransactionBuffersHeadersAndBody(t *testing.T) {
	c := qt.New(t)

	tx := &fakeTx{}
	handler := transactionWith(beginFake(tx))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			//nolint:errcheck // test handler
			_, _ = w.Write([]byte(`{"id":7}`))
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	c.Assert(rec.Header().Get("Content-Type"), qt.Equals, "application/json")
	c.Assert(rec.Body.String(), qt.Equals, `{"id":7}`)
}
