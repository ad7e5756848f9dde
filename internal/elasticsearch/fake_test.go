package elasticsearch_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordedRequest is a search request seen by the fake cluster.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

// fakeCluster answers pings and serves canned search responses keyed by
// index name. Requests carrying a size parameter get the "fetch" response,
// the others get the "count" response.
type fakeCluster struct {
	t      *testing.T
	mu     sync.Mutex
	count  map[string]string
	fetch  map[string]string
	status int
	seen   []recordedRequest
}

func newFakeCluster(t *testing.T) *fakeCluster {
	t.Helper()

	return &fakeCluster{
		t:      t,
		count:  map[string]string{},
		fetch:  map[string]string{},
		status: http.StatusOK,
	}
}

func (f *fakeCluster) start() *httptest.Server {
	f.t.Helper()

	server := httptest.NewServer(http.HandlerFunc(f.serve))
	f.t.Cleanup(server.Close)
	return server
}

func (f *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if !strings.HasSuffix(r.URL.Path, "/_search") {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"}}`)
		return
	}

	body, _ := io.ReadAll(r.Body)
	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	f.mu.Lock()
	f.seen = append(f.seen, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
		Body:   string(body),
	})
	status := f.status
	index := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/_search")
	responses := f.count
	if _, sized := query["size"]; sized {
		responses = f.fetch
	}
	resp, ok := responses[index]
	f.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":{"type":"search_phase_execution_exception"},"status":500}`)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
		return
	}
	_, _ = io.WriteString(w, resp)
}

func (f *fakeCluster) requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]recordedRequest, len(f.seen))
	copy(out, f.seen)
	return out
}
