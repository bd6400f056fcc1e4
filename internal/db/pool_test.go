package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPassword(t *testing.T) {
	cases := map[string]string{
		"":                                     "<empty>",
		"postgres://energy:s3cret@db:5432/app": "postgres://energy:***@db:5432/app",
		"postgres://db:5432/app":               "postgres://db:5432/app",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskPassword(in), in)
	}
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"user_devices", "bill_analyses", "device_analyses", "household_profiles"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
