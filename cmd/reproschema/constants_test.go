package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert.True(t, contains(validFormats, "yaml"))
	assert.True(t, contains(validFormats, "json"))
	assert.False(t, contains(validFormats, "toml"))
	assert.False(t, contains(validFormats, ""))
	assert.False(t, contains(validFormats, "YAML")) // case sensitive
}
