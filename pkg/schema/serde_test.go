package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCatalogEventV1(t *testing.T) {
	subject := "catalog_events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CatalogEventSchemaTextV1,
		).Return(0, errors.New("registry is down"))

		_, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.Error(t, err)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CatalogEventSchemaTextV1,
		).Return(1, nil)

		serde, err := schema.NewSerdeCatalogEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		event1 := schema.CatalogEventV1{
			Kind:       "deleted",
			ProductID:  3,
			Price:      "0",
			OccurredAt: time.UnixMilli(1760000000000).UTC(),
		}

		encodedData, err := serde.Encode(event1)
		require.NoError(t, err)

		var event2 schema.CatalogEventV1
		err = serde.Decode(encodedData, &event2)
		require.NoError(t, err)

		assert.Equal(t, event1.Kind, event2.Kind)
		assert.Equal(t, event1.ProductID, event2.ProductID)
		assert.True(t, event1.OccurredAt.Equal(event2.OccurredAt))
		schemaIdentifier.AssertExpectations(t)
	})
}
