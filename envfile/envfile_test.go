package envfile

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `APP_NAME=Manager
# database
DB_HOST=127.0.0.1

DB_DATABASE=old
`

func writeEnv(t *testing.T, content string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/app/.env", []byte(content), 0600))
	return fsys
}

func readEnv(t *testing.T, fsys afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, "/app/.env")
	require.NoError(t, err)
	return string(data)
}

func TestUpdateReplacesExistingKeyInPlace(t *testing.T) {
	fsys := writeEnv(t, sample)

	require.NoError(t, Update(fsys, "/app/.env", P("DB_DATABASE", "manager")))

	got := readEnv(t, fsys)
	assert.Equal(t, strings.Replace(sample, "DB_DATABASE=old", "DB_DATABASE=manager", 1), got)
	assert.Equal(t, 1, strings.Count(got, "DB_DATABASE="))
}

func TestUpdateAppendsMissingKey(t *testing.T) {
	fsys := writeEnv(t, sample)

	require.NoError(t, Update(fsys, "/app/.env", P("LOG_CHANNEL", "daily")))

	assert.Equal(t, sample+"LOG_CHANNEL=daily\n", readEnv(t, fsys))
}

func TestUpdateKeepsFileWithoutTrailingNewline(t *testing.T) {
	fsys := writeEnv(t, "A=1\nB=2")

	require.NoError(t, Update(fsys, "/app/.env", P("C", "3")))

	assert.Equal(t, "A=1\nB=2\nC=3", readEnv(t, fsys))
}

func TestUpdateManyEqualsSequentialUpdates(t *testing.T) {
	pairs := []Pair{
		P("DB_HOST", "db"),
		P("DB_PORT", "3307"),
		P("DB_HOST", "db2"),
		P("GITHUB_TOKEN", ""),
	}

	batch := writeEnv(t, sample)
	require.NoError(t, Update(batch, "/app/.env", pairs...))

	sequential := writeEnv(t, sample)
	for _, p := range pairs {
		require.NoError(t, Update(sequential, "/app/.env", p))
	}

	assert.Equal(t, readEnv(t, sequential), readEnv(t, batch))
}

func TestUpdateMissingFileCreatesIt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/app", 0755))

	require.NoError(t, Update(fsys, "/app/.env", P("A", "1"), P("B", "2")))

	assert.Equal(t, "A=1\nB=2\n", readEnv(t, fsys))
}

func TestUpdatePreservesFileMode(t *testing.T) {
	fsys := writeEnv(t, sample)

	require.NoError(t, Update(fsys, "/app/.env", P("A", "1")))

	info, err := fsys.Stat("/app/.env")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	entries, err := afero.ReadDir(fsys, "/app")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestMalformedLines(t *testing.T) {
	f := Parse([]byte("JUSTAKEY\nA=1\n"))

	f.Set("A", "2")
	assert.Equal(t, []string{"JUSTAKEY", "A=2"}, f.Lines())

	f.Set("JUSTAKEY", "x")
	assert.Equal(t, []string{"JUSTAKEY=x", "A=2"}, f.Lines())
}

func TestValueContainingSeparator(t *testing.T) {
	f := Parse([]byte("DATABASE_URL=mysql://u:p@h/db?a=b\n"))

	v, ok := f.Get("DATABASE_URL")
	require.True(t, ok)
	assert.Equal(t, "mysql://u:p@h/db?a=b", v)

	f.Set("DATABASE_URL", "x=y")
	assert.Equal(t, "DATABASE_URL=x=y\n", string(f.Bytes()))
}

func TestKeys(t *testing.T) {
	f := Parse([]byte(sample + "APP_NAME=again\n"))
	assert.Equal(t, []string{"APP_NAME", "DB_HOST", "DB_DATABASE"}, f.Keys())
}

func TestRead(t *testing.T) {
	fsys := writeEnv(t, "DB_CONNECTION=\"pgsql\"\n# note\nexport APP_ENV=local\n")

	values, err := Read(fsys, "/app/.env")
	require.NoError(t, err)
	assert.Equal(t, "pgsql", values["DB_CONNECTION"])
	assert.Equal(t, "local", values["APP_ENV"])
}
