package watch

import (
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/base"
	"github.com/phillipfoxsmaflex/entitydoc/internal/cmd/commands/generate"
	"github.com/phillipfoxsmaflex/entitydoc/internal/config"
)

func newCommand(t *testing.T) (*Command, *cli.MockUi) {
	t.Helper()
	t.Setenv(base.EnvConfig, "")
	t.Setenv(generate.EnvSourceDir, "")
	t.Setenv(generate.EnvOutput, "")

	ui := cli.NewMockUi()
	return &Command{Command: base.New(ui, nil)}, ui
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown flag", []string{"-interval", "1s"}, "error parsing flags"},
		{"no source", nil, "source directory is required"},
		{"bad cooldown", []string{"-source", t.TempDir(), "-cooldown", "soon"}, `invalid cooldown "soon"`},
		{"negative cooldown", []string{"-source", t.TempDir(), "-cooldown", "-2s"}, "invalid cooldown"},
		{"missing source", []string{"-source", "does-not-exist"}, "failed to open watch root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ui := newCommand(t)

			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
		})
	}
}

func TestWatcherSettings(t *testing.T) {
	cfg, err := config.Parse("entitydoc.hcl", []byte(`
source_dir = "model"

watch {
  cooldown = "5s"
  exec     = ["make", "docs"]
}
`))
	require.NoError(t, err)

	t.Run("from file", func(t *testing.T) {
		c, _ := newCommand(t)
		c.Flags()

		w, err := c.watcher(cfg)
		require.NoError(t, err)
		assert.NotNil(t, w)
	})

	t.Run("flags override file", func(t *testing.T) {
		c, _ := newCommand(t)
		require.NoError(t, c.Flags().Parse([]string{"-cooldown", "1s", "-run-on-start"}))

		w, err := c.watcher(cfg)
		require.NoError(t, err)
		assert.NotNil(t, w)
	})
}
