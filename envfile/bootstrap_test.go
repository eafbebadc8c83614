package envfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectWithTemplates(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range map[string]string{
		LocalTemplate:      "TIER=local\n",
		StagingTemplate:    "TIER=staging\n",
		ProductionTemplate: "TIER=production\n",
	} {
		require.NoError(t, afero.WriteFile(fsys, "/app/"+name, []byte(content), 0644))
	}
	return fsys
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{"local", LocalTemplate},
		{"staging", StagingTemplate},
		{"testing", StagingTemplate},
		{"production", ProductionTemplate},
		{"prod", ProductionTemplate},
		{"", ProductionTemplate},
		{"Local", ProductionTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			assert.Equal(t, tt.want, TemplateFor(tt.tier))
		})
	}
}

func TestBootstrapCopiesTierTemplate(t *testing.T) {
	for tier, want := range map[string]string{
		"local":   "TIER=local\n",
		"staging": "TIER=staging\n",
		"testing": "TIER=staging\n",
		"prod":    "TIER=production\n",
		"":        "TIER=production\n",
	} {
		t.Run(tier, func(t *testing.T) {
			fsys := projectWithTemplates(t)

			copied, err := Bootstrap(fsys, "/app", tier)
			require.NoError(t, err)
			assert.True(t, copied)

			data, err := afero.ReadFile(fsys, "/app/.env")
			require.NoError(t, err)
			assert.Equal(t, want, string(data))
		})
	}
}

func TestBootstrapLeavesExistingEnvAlone(t *testing.T) {
	for _, tier := range []string{"local", "staging", "production"} {
		fsys := projectWithTemplates(t)
		require.NoError(t, afero.WriteFile(fsys, "/app/.env", []byte("KEEP=1\n"), 0644))

		copied, err := Bootstrap(fsys, "/app", tier)
		require.NoError(t, err)
		assert.False(t, copied)

		data, err := afero.ReadFile(fsys, "/app/.env")
		require.NoError(t, err)
		assert.Equal(t, "KEEP=1\n", string(data))
	}
}

func TestBootstrapMissingTemplateIsNoop(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/app", 0755))

	copied, err := Bootstrap(fsys, "/app", "local")
	require.NoError(t, err)
	assert.False(t, copied)

	exists, err := afero.Exists(fsys, "/app/.env")
	require.NoError(t, err)
	assert.False(t, exists)
}
