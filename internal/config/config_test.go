package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "value")
	assert.Equal(t, "value", envOrDefault("CONFIG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", envOrDefault("CONFIG_TEST_MISSING", "fallback"))
}

func TestParseList(t *testing.T) {
	t.Setenv("CONFIG_TEST_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseList("CONFIG_TEST_ORIGINS", []string{"*"}))

	t.Setenv("CONFIG_TEST_ORIGINS", " , ")
	assert.Equal(t, []string{"*"}, parseList("CONFIG_TEST_ORIGINS", []string{"*"}))

	assert.Equal(t, []string{"*"}, parseList("CONFIG_TEST_ORIGINS_MISSING", []string{"*"}))
}
