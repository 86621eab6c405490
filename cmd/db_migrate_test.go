package cmd

import (
	"testing"

	"lending/core"

	"github.com/stretchr/testify/assert"
)

func TestMigrateRefusesMemoryStore(t *testing.T) {
	memory := cfg.App.Memory
	defer func() { cfg.App.Memory = memory }()

	cfg.App.Memory = true
	err := migrateCmd.RunE(migrateCmd, nil)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
