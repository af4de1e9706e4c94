package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nekoweb3/alphabot/internal/bot"
	"github.com/nekoweb3/alphabot/internal/ingest"
	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/scheduler"
	"github.com/nekoweb3/alphabot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	got []bot.Message
}

func (h *echoHandler) Handle(_ context.Context, msg bot.Message) []bot.Reply {
	h.got = append(h.got, msg)
	return []bot.Reply{{ChatID: msg.ChatID, Text: "echo " + msg.Text}}
}

type recordingDeliverer struct {
	sent []bot.Reply
	err  error
}

func (d *recordingDeliverer) Deliver(_ context.Context, replies []bot.Reply) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, replies...)
	return nil
}

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) Refresh(context.Context) ingest.Report {
	f.calls++
	return ingest.Report{Fetched: 3, Inserted: 2}
}

type fakeJobs struct{ ran []string }

func (f *fakeJobs) GetJobStatus() []scheduler.JobStatus {
	return []scheduler.JobStatus{{Name: "refresh-chains", Schedule: "every 15m0s"}}
}

func (f *fakeJobs) RunJobNow(name string) error {
	if name != "refresh-chains" {
		return scheduler.ErrJobNotFound
	}
	f.ran = append(f.ran, name)
	return nil
}

const update = `{"update_id":10,"message":{"message_id":5,"date":1700000000,"text":"/start","chat":{"id":42,"type":"private"},"from":{"id":7,"is_bot":false,"first_name":"Neko","username":"neko"}}}`

func newTestServer(t *testing.T, secret string) (*Server, *echoHandler, *recordingDeliverer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	h := &echoHandler{}
	d := &recordingDeliverer{}
	srv := NewServer(Deps{
		Store:         store,
		Handler:       h,
		Deliverer:     d,
		Refresher:     &fakeRefresher{},
		Scheduler:     &fakeJobs{},
		WebhookSecret: secret,
	}, ":0")
	return srv, h, d, store
}

func do(srv http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestWebhookDispatchesAndDelivers(t *testing.T) {
	srv, h, d, _ := newTestServer(t, "")

	rec := do(srv, http.MethodPost, "/api/webhook", update, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	require.Len(t, h.got, 1)
	assert.Equal(t, bot.Message{ChatID: 42, Username: "neko", Text: "/start"}, h.got[0])
	require.Len(t, d.sent, 1)
	assert.Equal(t, "echo /start", d.sent[0].Text)
}

func TestWebhookStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		header map[string]string
		secret string
		want   int
		text   string
	}{
		{name: "get", method: http.MethodGet, want: http.StatusMethodNotAllowed, text: "Method Not Allowed"},
		{name: "put", method: http.MethodPut, body: update, want: http.StatusMethodNotAllowed, text: "Method Not Allowed"},
		{name: "garbage", method: http.MethodPost, body: "{not json", want: http.StatusBadRequest, text: "Bad Request"},
		{name: "missing secret", method: http.MethodPost, body: update, secret: "s3cret", want: http.StatusUnauthorized, text: "Unauthorized"},
		{
			name: "wrong secret", method: http.MethodPost, body: update, secret: "s3cret",
			header: map[string]string{SecretHeader: "nope"}, want: http.StatusUnauthorized, text: "Unauthorized",
		},
		{
			name: "right secret", method: http.MethodPost, body: update, secret: "s3cret",
			header: map[string]string{SecretHeader: "s3cret"}, want: http.StatusOK, text: "OK",
		},
		{name: "no message", method: http.MethodPost, body: `{"update_id":11}`, want: http.StatusOK, text: "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _, _ := newTestServer(t, tt.secret)
			rec := do(srv, tt.method, "/api/webhook", tt.body, tt.header)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.text, rec.Body.String())
		})
	}
}

func TestWebhookIgnoresUpdatesWithoutText(t *testing.T) {
	srv, h, _, _ := newTestServer(t, "")

	rec := do(srv, http.MethodPost, "/api/webhook", `{"update_id":12,"message":{"message_id":1,"chat":{"id":1,"type":"private"}}}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, h.got)
}

func TestWebhookDeliveryFailure(t *testing.T) {
	srv, _, d, _ := newTestServer(t, "")
	d.err = errors.New("telegram down")

	rec := do(srv, http.MethodPost, "/api/webhook", update, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error", rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	srv, _, _, store := newTestServer(t, "")

	rec := do(srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	require.NoError(t, store.Close(context.Background()))
	rec = do(srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	_, err := store.InsertIfAbsent(context.Background(), []models.Project{
		{Name: "Pepe Inu", Address: "0x1", Chain: "ethereum", Category: models.CategoryMeme, RiskScore: models.RiskLow, PairAgeHours: 2, Liquidity: 120000, Volume24h: 300000},
		{Name: "SwapFi", Address: "0x2", Chain: "bsc", Category: models.CategoryDeFi, RiskScore: models.RiskMedium, PairAgeHours: 30},
		{Name: "Rug", Address: "0x3", Chain: "ethereum", Category: models.CategoryUtility, RiskScore: models.RiskHigh, PairAgeHours: 0},
	})
	require.NoError(t, err)
}

func TestGetStats(t *testing.T) {
	srv, _, _, store := newTestServer(t, "")
	seed(t, store)

	rec := do(srv, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats.TotalProjects)
	assert.EqualValues(t, 2, stats.Fresh)
	assert.EqualValues(t, 1, stats.ByRisk["HIGH"])
	assert.EqualValues(t, 1, stats.ByCategory["meme"])
	assert.NotEmpty(t, stats.Phase)
}

func TestGetProjects(t *testing.T) {
	srv, _, _, store := newTestServer(t, "")
	seed(t, store)

	rec := do(srv, http.MethodGet, "/api/projects?chain=eth", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Projects []ScoredProject `json:"projects"`
		Count    int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	for _, p := range body.Projects {
		assert.Equal(t, "ethereum", p.Chain)
	}

	rec = do(srv, http.MethodGet, "/api/projects?category=stonks", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTopProjectsExcludesHighRisk(t *testing.T) {
	srv, _, _, store := newTestServer(t, "")
	seed(t, store)

	rec := do(srv, http.MethodGet, "/api/projects/top?n=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Projects []ScoredProject `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Projects, 2)
	assert.Equal(t, "0x1", body.Projects[0].Address)
	assert.Equal(t, 95, body.Projects[0].AlphaScore)
	for _, p := range body.Projects {
		assert.NotEqual(t, models.RiskHigh, p.RiskScore)
	}
}

func TestGetTopProjectsRanksOlderRecords(t *testing.T) {
	srv, _, _, store := newTestServer(t, "")
	seed(t, store)

	var fillers []models.Project
	for i := 0; i < 600; i++ {
		fillers = append(fillers, models.Project{
			Address: fmt.Sprintf("f%d", i), Name: "Filler", PairAgeHours: 100, RiskScore: models.RiskMedium,
			CreatedAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		})
	}
	_, err := store.InsertIfAbsent(context.Background(), fillers)
	require.NoError(t, err)

	rec := do(srv, http.MethodGet, "/api/projects/top?n=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Projects []ScoredProject `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Projects, 1)
	assert.Equal(t, "0x1", body.Projects[0].Address)
}

func TestAdminRoutes(t *testing.T) {
	refresher := &fakeRefresher{}
	jobs := &fakeJobs{}
	srv := NewServer(Deps{Store: memory.NewStore(), Refresher: refresher, Scheduler: jobs}, ":0")

	rec := do(srv, http.MethodPost, "/api/admin/refresh", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, refresher.calls)
	assert.Contains(t, rec.Body.String(), `"inserted":2`)

	rec = do(srv, http.MethodGet, "/api/admin/jobs", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(srv, http.MethodPost, "/api/admin/jobs/refresh-chains/run", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"refresh-chains"}, jobs.ran)

	rec = do(srv, http.MethodPost, "/api/admin/jobs/nope/run", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesWithoutCollaborators(t *testing.T) {
	srv := NewServer(Deps{Store: memory.NewStore()}, ":0")

	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodPost, "/api/admin/refresh", "", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/api/admin/jobs", "", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(srv, http.MethodPost, "/api/webhook", update, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _, _ := newTestServer(t, "")
	do(srv, http.MethodPost, "/api/webhook", update, nil)

	rec := do(srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nekobot_webhook_updates_total")
}
