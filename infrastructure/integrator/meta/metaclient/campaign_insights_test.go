package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
)

func newTestClient(serverURL string) *MetaClient {
	return NewClient(&config.Config{
		Meta: config.Meta{
			URL:               serverURL,
			AccessToken:       "token-teste",
			RequestsPerSecond: 1000,
			Timeout:           time.Second,
		},
	})
}

func TestGetDailyCampaignInsights_FollowsPaging(t *testing.T) {
	var server *httptest.Server
	requests := 0

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("after") == "" {
			assert.Equal(t, "/act_123/insights", r.URL.Path)
			assert.Equal(t, "campaign", r.URL.Query().Get("level"))
			assert.Equal(t, "1", r.URL.Query().Get("time_increment"))
			assert.Equal(t, "token-teste", r.URL.Query().Get("access_token"))
			assert.JSONEq(t, `{"since":"2024-03-01","until":"2024-03-02"}`, r.URL.Query().Get("time_range"))

			fmt.Fprintf(w, `{"data":[{"campaign_id":"c1","campaign_name":"Medición","spend":"10.50","impressions":"1000","clicks":"20","date_start":"2024-03-01","date_stop":"2024-03-01"}],
				"paging":{"cursors":{"after":"abc"},"next":"%s/act_123/insights?after=abc"}}`, server.URL)
			return
		}

		fmt.Fprint(w, `{"data":[{"campaign_id":"c1","campaign_name":"Medición","spend":"4","impressions":"300","clicks":"5","date_start":"2024-03-02","date_stop":"2024-03-02"}],"paging":{"cursors":{"after":"def"}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	insights, err := client.GetDailyCampaignInsights(context.Background(), "123", since, until)
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	require.Len(t, insights, 2)
	assert.Equal(t, "10.50", insights[0].Spend)
	assert.Equal(t, "2024-03-02", insights[1].DateStart)
}

func TestGetDailyCampaignInsights_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Error validating access token","type":"OAuthException","code":190,"fbtrace_id":"x"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetDailyCampaignInsights(context.Background(), "act_123", time.Now(), time.Now())
	require.Error(t, err)

	var apiErr *metadomain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 190, apiErr.Details.Code)
	assert.True(t, (&metadomain.ErrorResponse{Error: apiErr.Details}).IsTokenExpired())
}

func TestGetDailyCampaignInsights_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream indisponível")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetDailyCampaignInsights(context.Background(), "act_123", time.Now(), time.Now())

	var apiErr *metadomain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream indisponível", apiErr.Details.Message)
}

func TestGetDailyCampaignInsights_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("nenhuma requisição deveria chegar ao servidor")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.GetDailyCampaignInsights(ctx, "act_123", time.Now(), time.Now())
	assert.Error(t, err)
}
