package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CatalogEventKind string

const (
	ProductCreated CatalogEventKind = "created"
	ProductUpdated CatalogEventKind = "updated"
	ProductDeleted CatalogEventKind = "deleted"
)

// A CatalogEvent reports a committed catalog change.
type CatalogEvent struct {
	Kind       CatalogEventKind
	ProductID  int64
	Name       string
	Price      decimal.Decimal
	Available  bool
	OccurredAt time.Time
}
