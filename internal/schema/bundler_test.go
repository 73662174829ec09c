package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

func TestSplitFQN(t *testing.T) {
	schemaName, tableName := splitFQN("public.orders")
	assert.Equal(t, "public", schemaName)
	assert.Equal(t, "orders", tableName)

	schemaName, tableName = splitFQN("orders")
	assert.Equal(t, "default", schemaName)
	assert.Equal(t, "orders", tableName)
}

func TestCacheKey_DistinguishesWithExamples(t *testing.T) {
	a := cacheKey("profile", "client", "prod", true)
	b := cacheKey("profile", "client", "prod", false)
	assert.NotEqual(t, a, b)
}

func TestTableDescriptor_LookupByFQN(t *testing.T) {
	d := &entity.SchemaDescriptor{
		Profile: "p",
		Tables: []entity.TableDescriptor{
			{FQN: "public.orders", Description: "order records"},
		},
	}
	td := tableDescriptor(d, "public.orders")
	if assert.NotNil(t, td) {
		assert.Equal(t, "order records", td.Description)
	}
	assert.Nil(t, tableDescriptor(d, "public.customers"))
	assert.Nil(t, tableDescriptor(nil, "public.orders"))
}

func TestColumnDescription(t *testing.T) {
	td := &entity.TableDescriptor{
		Columns: []entity.ColumnDescriptor{{Name: "id", Description: "primary key"}},
	}
	assert.Equal(t, "primary key", columnDescription(td, "id"))
	assert.Equal(t, "", columnDescription(td, "missing"))
	assert.Equal(t, "", columnDescription(nil, "id"))
}
