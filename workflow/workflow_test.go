package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("# " + r.URL.Path + "\n"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

func TestDefaultManifest(t *testing.T) {
	templates := DefaultManifest()
	require.Len(t, templates, 7)

	assert.Equal(t, Template{
		URL:  "https://raw.githubusercontent.com/vortechstudio/manager/master/.github/workflows/pr_agent.yml",
		Dest: ".github/workflows/pr_agent.yml",
	}, templates[0])
	assert.Equal(t, ".github/ISSUE_TEMPLATE/config.yml", templates[6].Dest)

	hosts := map[string]bool{}
	for _, tpl := range templates {
		hosts[strings.Join(strings.Split(tpl.URL, "/")[:5], "/")] = true
	}
	assert.Len(t, hosts, 2)
}

func TestUpstreamManifest(t *testing.T) {
	templates := UpstreamManifest()
	require.Len(t, templates, 3)
	assert.Equal(t, "https://raw.githubusercontent.com/laravel/laravel/11.x/.github/workflows/issues.yml", templates[0].URL)
	assert.Equal(t, ".github/workflows/issue.yml", templates[0].Dest)
}

func TestImportOverwritesDestinations(t *testing.T) {
	srv := newServer(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/app/.github/dependabot.yml", []byte("stale"), 0644))

	src := Source{BaseURL: srv.URL + "/repo", Files: []File{
		{Path: ".github/workflows/tests.yml", Dest: ".github/workflows/tests.yml"},
		{Path: ".github/dependabot.yml", Dest: ".github/dependabot.yml"},
	}}

	var seen []string
	im := NewImporter(fsys, "/app", testClient())
	im.OnResult = func(r Result) { seen = append(seen, r.Template.Dest) }

	results, err := im.Import(context.Background(), src.Templates())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{".github/workflows/tests.yml", ".github/dependabot.yml"}, seen)

	data, err := afero.ReadFile(fsys, "/app/.github/workflows/tests.yml")
	require.NoError(t, err)
	assert.Equal(t, "# /repo/.github/workflows/tests.yml\n", string(data))

	data, err = afero.ReadFile(fsys, "/app/.github/dependabot.yml")
	require.NoError(t, err)
	assert.Equal(t, "# /repo/.github/dependabot.yml\n", string(data))
}

func TestImportStopsAtFirstFailure(t *testing.T) {
	srv := newServer(t)
	fsys := afero.NewMemMapFs()

	templates := []Template{
		{URL: srv.URL + "/a.yml", Dest: "a.yml"},
		{URL: srv.URL + "/missing.yml", Dest: "b.yml"},
		{URL: srv.URL + "/c.yml", Dest: "c.yml"},
	}

	results, err := NewImporter(fsys, "/app", testClient()).Import(context.Background(), templates)

	require.Error(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	for path, want := range map[string]bool{"/app/a.yml": true, "/app/b.yml": false, "/app/c.yml": false} {
		exists, err := afero.Exists(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, want, exists, path)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := newServer(t)
	url := srv.URL
	srv.Close()

	res := (&Fetcher{Client: testClient()}).Fetch(context.Background(), Template{URL: url + "/x.yml", Dest: "x.yml"})

	assert.False(t, res.OK())
	assert.Nil(t, res.Body)
}
