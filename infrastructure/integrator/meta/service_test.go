package meta

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
)

type fakeClient struct {
	insights map[string][]metadomain.CampaignInsight
	errs     map[string]error
}

func (f *fakeClient) GetDailyCampaignInsights(_ context.Context, accountID string, _, _ time.Time) ([]metadomain.CampaignInsight, error) {
	if err := f.errs[accountID]; err != nil {
		return nil, err
	}
	return f.insights[accountID], nil
}

func newIntegrator(accounts []string, client *fakeClient) *MetaIntegrator {
	return New(&config.Config{
		Meta:   config.Meta{AdAccountIDs: accounts},
		Report: config.Report{Location: time.UTC},
	}, client)
}

func TestGetDailyAdSpend_MergesSameDaySameCampaign(t *testing.T) {
	client := &fakeClient{
		insights: map[string][]metadomain.CampaignInsight{
			"act_1": {
				{CampaignID: "c1", CampaignName: "Medición", Spend: "10.25", Impressions: "100", Clicks: "3", DateStart: "2024-03-01"},
				{CampaignID: "c2", CampaignName: "Fitting", Spend: "5", Impressions: "50", Clicks: "", DateStart: "2024-03-01"},
			},
			"act_2": {
				{CampaignID: "c1", CampaignName: "Medición", Spend: "4.75", Impressions: "40", Clicks: "1", DateStart: "2024-03-01"},
				{CampaignID: "c1", CampaignName: "Medición", Spend: "2", Impressions: "", Clicks: "1", DateStart: "2024-03-02"},
			},
		},
	}

	records, err := newIntegrator([]string{"act_1", "act_2"}, client).
		GetDailyAdSpend(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "c1", records[0].CampaignID)
	assert.Equal(t, "2024-03-01", records[0].Date.Format(time.DateOnly))
	assert.Equal(t, 15.0, records[0].Spend)
	assert.Equal(t, 140, records[0].Impressions)
	assert.Equal(t, 4, records[0].Clicks)

	assert.Equal(t, "c2", records[1].CampaignID)
	assert.Equal(t, 0, records[1].Clicks)

	assert.Equal(t, "2024-03-02", records[2].Date.Format(time.DateOnly))
	assert.Equal(t, 0, records[2].Impressions)
}

func TestGetDailyAdSpend_PartialAndTotalFailure(t *testing.T) {
	boom := errors.New("boom")

	t.Run("uma conta falha", func(t *testing.T) {
		client := &fakeClient{
			insights: map[string][]metadomain.CampaignInsight{
				"act_1": {{CampaignID: "c1", Spend: "1", DateStart: "2024-03-01"}},
			},
			errs: map[string]error{"act_2": boom},
		}

		records, err := newIntegrator([]string{"act_1", "act_2"}, client).
			GetDailyAdSpend(context.Background(), time.Now(), time.Now())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("todas as contas falham", func(t *testing.T) {
		client := &fakeClient{errs: map[string]error{"act_1": boom}}

		_, err := newIntegrator([]string{"act_1"}, client).
			GetDailyAdSpend(context.Background(), time.Now(), time.Now())
		assert.ErrorIs(t, err, boom)
	})
}

func TestGetDailyAdSpend_SkipsInvalidRows(t *testing.T) {
	client := &fakeClient{
		insights: map[string][]metadomain.CampaignInsight{
			"act_1": {
				{CampaignID: "c1", Spend: "abc", DateStart: "2024-03-01"},
				{CampaignID: "", Spend: "1", DateStart: "2024-03-01"},
				{CampaignID: "c2", Spend: "1", DateStart: "01/03/2024"},
				{CampaignID: "c3", Spend: "2.5", DateStart: "2024-03-01"},
			},
		},
	}

	records, err := newIntegrator([]string{"act_1"}, client).
		GetDailyAdSpend(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c3", records[0].CampaignID)
}

func TestGetDailyAdSpend_NoAccounts(t *testing.T) {
	records, err := newIntegrator(nil, &fakeClient{}).
		GetDailyAdSpend(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}
