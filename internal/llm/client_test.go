package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "qwen-turbo",
			"choices": []map[string]interface{}{{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}}},
			"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInsight(t *testing.T) {
	var body map[string]interface{}
	srv := completionServer(t, `{"summary":"Deep liquidity for a 2h old pair.","red_flags":["No website"],"what_to_watch":"Volume after the first day.","sentiment":"neutral"}`, &body)
	c := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL})

	text, err := c.Insight(context.Background(), models.Project{
		Name: "Pepe Inu", Symbol: "PINU", Chain: "ethereum", Category: models.CategoryMeme,
		Liquidity: 150000, PairAgeHours: 2, RiskScore: models.RiskLow,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deep liquidity for a 2h old pair.\n\nRed flags:\n- No website\n\nWatch: Volume after the first day.\nSentiment: neutral", text)

	assert.Equal(t, ModelQwenTurbo, body["model"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, body["response_format"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1].(map[string]interface{})["content"], "Liquidity: $150.0K")
}

func TestInsight_BadResponses(t *testing.T) {
	p := models.Project{Name: "X"}

	c := NewClient(Config{APIKey: "test-key", Endpoint: completionServer(t, "not json", nil).URL})
	_, err := c.Insight(context.Background(), p)
	assert.ErrorContains(t, err, "failed to parse JSON response")

	c = NewClient(Config{APIKey: "test-key", Endpoint: completionServer(t, `{"summary":"  "}`, nil).URL})
	_, err = c.Insight(context.Background(), p)
	assert.ErrorContains(t, err, "empty brief")
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "950", formatVolume(950))
	assert.Equal(t, "12.5K", formatVolume(12500))
	assert.Equal(t, "3.2M", formatVolume(3_200_000))
}
