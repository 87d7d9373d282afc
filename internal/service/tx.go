// Package service contains the business logic between the HTTP handlers and
// the repositories. Services own ordering, ownership checks, and the
// transaction boundary for multi-write operations.
package service

import (
	"gorm.io/gorm"
)

// inTx runs fn inside a transaction when a database handle is present.
// Unit tests construct services with a nil handle and stub repositories, in
// which case fn runs directly with a nil tx and WithTx becomes a no-op.
func inTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.Transaction(fn)
}
