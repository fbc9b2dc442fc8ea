package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	assert.Equal(t, "taskmanager", app.Name)
	assert.NotNil(t, app.Action, "serve is the default action")

	serve := app.Command("serve")
	require.NotNil(t, serve)

	migrate := app.Command("migrate")
	require.NotNil(t, migrate)
	var names []string
	for _, sub := range migrate.Subcommands {
		names = append(names, sub.Name)
	}
	assert.ElementsMatch(t, []string{"up", "down"}, names)
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	err := newApp().Run([]string{"taskmanager", "--env-file", "does-not-exist.env", "migrate", "up"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}
