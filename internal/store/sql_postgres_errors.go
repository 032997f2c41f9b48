package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification says whether a failed database operation is worth a
// second attempt.
type ErrorClassification int

const (
	// NonRetryable covers constraint violations, data exceptions, syntax
	// errors, and anything the classifier does not recognise.
	NonRetryable ErrorClassification = iota

	// Retryable covers transient failures: lost connections, serialization
	// failures, and deadlock rollbacks.
	Retryable
)

// ErrorClassificator classifies driver-level database errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier implements [ErrorClassificator] by inspecting the
// SQLSTATE code carried by pgx driver errors. Codes outside the transient
// classes (08 connection exceptions, 40 transaction rollback, 57P03 cannot
// connect now) are reported as [NonRetryable].
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

// Classify implements [ErrorClassificator]. Wrapped errors are unwrapped with
// errors.As, so classification survives fmt.Errorf %w chains.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}

	if _, ok := retryablePgCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
