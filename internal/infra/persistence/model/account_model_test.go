package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The DTO layer accepts names and emails up to 200 characters, so the columns
// must hold at least that much or valid input would fail at the INSERT.
func TestAccountModel_ColumnsFitValidatedLengths(t *testing.T) {
	modelType := reflect.TypeOf(AccountModel{})

	for _, fieldName := range []string{"Email", "Name"} {
		field, ok := modelType.FieldByName(fieldName)
		require.True(t, ok, fieldName)
		assert.Contains(t, field.Tag.Get("gorm"), "varchar(200)", fieldName)
	}
}

func TestAccountModel_TableName(t *testing.T) {
	assert.Equal(t, "accounts", AccountModel{}.TableName())
}
