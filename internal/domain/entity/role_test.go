package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestAccount_IsActive(t *testing.T) {
	assert.True(t, (&Account{Status: true}).IsActive())
	assert.False(t, (&Account{Status: false}).IsActive())
}
