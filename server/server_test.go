package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/pagebridge/dbopen"
	"github.com/hazyhaar/pagebridge/runlog"
)

const samplePage = `[
	{"id":"s1","elType":"section","settings":{"background_color":"#111"},"elements":[
		{"id":"c1","elType":"column","settings":{},"elements":[
			{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"Hello"}},
			{"id":"w2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Body</p>"}}
		]}
	]}
]`

func testServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(nil, nil, opts...).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if resp.StatusCode != 200 || body["status"] != "ok" {
		t.Fatalf("health = %d %v", resp.StatusCode, body)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	var stats struct {
		TotalElements int            `json:"total_elements"`
		Sections      int            `json:"sections"`
		Widgets       int            `json:"widgets"`
		ZonesByType   map[string]int `json:"zones_by_type"`
	}
	decodeBody(t, resp, &stats)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if stats.TotalElements != 4 || stats.Sections != 1 || stats.Widgets != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ZonesByType["content"] != 2 || stats.ZonesByType["styling"] != 1 {
		t.Fatalf("zones = %v", stats.ZonesByType)
	}
}

func TestAnalyzeEndpointBadJSON(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTransformEndpoint(t *testing.T) {
	ts := testServer(t)

	reqBody := `{
		"content": ` + samplePage + `,
		"transform": "replace",
		"args": {"old": "Hello", "new": "Bonjour"},
		"zones": ["content"]
	}`
	resp, err := http.Post(ts.URL+"/api/transform", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		OK            bool            `json:"ok"`
		Preservation  float64         `json:"preservation"`
		ModifiedPaths []string        `json:"modified_paths"`
		Content       json.RawMessage `json:"content"`
	}
	decodeBody(t, resp, &body)
	if resp.StatusCode != 200 || !body.OK {
		t.Fatalf("transform failed: %d %+v", resp.StatusCode, body)
	}
	if body.Preservation != 100 {
		t.Fatalf("preservation = %v", body.Preservation)
	}
	if len(body.ModifiedPaths) != 1 {
		t.Fatalf("modified paths = %v", body.ModifiedPaths)
	}
	if !strings.Contains(string(body.Content), "Bonjour") {
		t.Fatalf("content not rewritten:\n%s", body.Content)
	}
}

func TestTransformEndpointUnknownZone(t *testing.T) {
	ts := testServer(t)

	reqBody := `{"content": ` + samplePage + `, "zones": ["chrome"]}`
	resp, err := http.Post(ts.URL+"/api/transform", "application/json", strings.NewReader(reqBody))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestConvertEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/convert?target=html", "application/json", strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d: %v", resp.StatusCode, body)
	}
	if body["ext"] != "html" || !strings.Contains(body["output"], "<h2>Hello</h2>") {
		t.Fatalf("convert = %v", body)
	}
}

func TestConvertEndpointUnknownTarget(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/convert?target=framer", "application/json", strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPairsEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/pairs")
	if err != nil {
		t.Fatal(err)
	}
	var pairs []struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	decodeBody(t, resp, &pairs)
	if len(pairs) != 7 {
		t.Fatalf("got %d pairs, want 7", len(pairs))
	}
}

func TestRunsEndpointRecordsConverts(t *testing.T) {
	store := runlog.NewStore(dbopen.OpenMemory(t, dbopen.WithSchema(runlog.Schema)))
	ts := testServer(t, WithRunLog(store))

	resp, err := http.Post(ts.URL+"/api/convert?target=html", "application/json", strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	var runs []struct {
		Source       string `json:"source"`
		Target       string `json:"target"`
		Elements     int    `json:"elements"`
		ContentItems int    `json:"content_items"`
		Status       string `json:"status"`
	}
	decodeBody(t, resp, &runs)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Target != "html" || runs[0].Elements != 4 || runs[0].ContentItems != 2 || runs[0].Status != "ok" {
		t.Fatalf("run = %+v", runs[0])
	}
}

func TestRunsEndpointWithoutStore(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	var runs []any
	decodeBody(t, resp, &runs)
	if len(runs) != 0 {
		t.Fatalf("runs = %v", runs)
	}
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	ts := testServer(t, WithBasicAuth("ops", string(hash)))

	// Health stays open.
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	// API without credentials is rejected.
	resp, err = http.Get(ts.URL + "/api/pairs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	// With credentials it passes.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/pairs", nil)
	req.SetBasicAuth("ops", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("authed status = %d", resp.StatusCode)
	}

	// Wrong password is rejected.
	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/pairs", nil)
	req.SetBasicAuth("ops", "wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", resp.StatusCode)
	}
}
