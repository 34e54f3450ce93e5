package specification

import "gorm.io/gorm"

// Specification narrows a query. Repositories apply specs in order, so
// filters and ordering compose freely at the call site.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
