package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padraigk/jobradar/internal/jobs"
)

func TestAdzunaFetchJobs(t *testing.T) {
	t.Parallel()

	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		require.Equal(t, "test-id", r.URL.Query().Get("app_id"))
		require.Equal(t, "date", r.URL.Query().Get("sort_by"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{
			"id":"4001",
			"title":"Product Designer",
			"description":"Design things.",
			"company":{"display_name":"Acme"},
			"location":{"display_name":"Dublin, Ireland"},
			"redirect_url":"https://example.com/4001",
			"created":"2026-07-30T00:00:00Z",
			"contract_type":"permanent",
			"salary_min":55000,
			"salary_max":70000,
			"salary_is_predicted":"1"
		}]}`))
	}))
	defer srv.Close()

	a := NewAdzuna("test-id", "test-key", testDeps(allowAllRobots{}, nil))
	a.baseURL = srv.URL

	profile := &jobs.Profile{
		TargetLocations: []string{"Dublin", "Amsterdam"},
		PreferredRoles:  []string{"Product Designer"},
	}
	got, err := a.FetchJobs(context.Background(), profile)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// one request per location/role pair, country derived from location
	require.Equal(t, []string{"/ie/search/1", "/nl/search/1"}, gotPaths)

	job := got[0]
	require.Equal(t, "4001", job.ID)
	require.Equal(t, "Product Designer", job.Title)
	require.Equal(t, "Acme", job.Company)
	require.Equal(t, "Dublin, Ireland", job.Location)
	require.Equal(t, "Adzuna", job.Source)
	require.Equal(t, "permanent", job.Type)
	require.NotNil(t, job.Salary)
	require.Equal(t, "55000 - 70000 (est.)", *job.Salary)
	require.NotNil(t, job.Created)
}

func TestAdzunaMissingCredentials(t *testing.T) {
	t.Parallel()

	a := NewAdzuna("", "", testDeps(allowAllRobots{}, nil))
	got, err := a.FetchJobs(context.Background(), &jobs.Profile{
		TargetLocations: []string{"Dublin"},
		PreferredRoles:  []string{"Product Designer"},
	})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestAdzunaQueryFailureContained(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":"1","title":"UX Designer","redirect_url":"https://example.com/1"}]}`))
	}))
	defer srv.Close()

	a := NewAdzuna("id", "key", testDeps(allowAllRobots{}, nil))
	a.baseURL = srv.URL

	got, err := a.FetchJobs(context.Background(), &jobs.Profile{
		TargetLocations: []string{"Dublin"},
		PreferredRoles:  []string{"Product Designer", "UX Designer"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "UX Designer", got[0].Title)
}
