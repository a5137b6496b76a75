package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	metadomain "github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	GetDailyCampaignInsights(ctx context.Context, accountID string, since, until time.Time) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	url         string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewClient(cfg *config.Config) *MetaClient {
	rps := cfg.Meta.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	timeout := cfg.Meta.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &MetaClient{
		url:         cfg.Meta.URL,
		accessToken: cfg.Meta.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// get aguarda o rate limiter antes de cada chamada; toda página conta
func (c *MetaClient) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao fazer a requisição: %w", err)
	}
	defer resp.Body.Close()

	return handleResponse(resp)
}

func handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Code == 0 {
		return nil, &metadomain.APIError{
			StatusCode: resp.StatusCode,
			Details:    metadomain.ErrorDetails{Message: string(body)},
		}
	}

	return nil, &metadomain.APIError{StatusCode: resp.StatusCode, Details: errorResp.Error}
}
