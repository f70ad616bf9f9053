// Package service implements the aggregation and query layer: multi-table
// joins producing denormalized response shapes, view-backed summaries and
// procedural reports.
package service

import (
	"gorm.io/gorm"
)

// Service composes aggregation queries over the archive schema
type Service struct {
	db *gorm.DB
}

// NewService builds a query service over the given database handle
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}
