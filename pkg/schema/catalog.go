package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const CatalogEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "catalog_event",
	"fields" : [
		{"name": "kind", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "name", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "available", "type": "boolean"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// A CatalogEventV1 carries the price as a decimal string, no precision is
// lost on the wire.
type CatalogEventV1 struct {
	Kind       string    `avro:"kind"`
	ProductID  int64     `avro:"product_id"`
	Name       string    `avro:"name"`
	Price      string    `avro:"price"`
	Available  bool      `avro:"available"`
	OccurredAt time.Time `avro:"occurred_at"`
}

func CatalogEventV1Avro() avro.Schema {
	return avro.MustParse(CatalogEventSchemaTextV1)
}
