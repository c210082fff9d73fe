package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAccountFromArgs(t *testing.T) {
	assert.Equal(t, "default", GetAccountFromArgs(nil))
	assert.Equal(t, "default", GetAccountFromArgs(map[string]interface{}{}))
	assert.Equal(t, "default", GetAccountFromArgs(map[string]interface{}{"account": ""}))
	assert.Equal(t, "default", GetAccountFromArgs(map[string]interface{}{"account": 42}))
	assert.Equal(t, "work", GetAccountFromArgs(map[string]interface{}{"account": "work"}))
}
