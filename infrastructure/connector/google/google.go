package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// Connector busca métricas diárias por grupo de anúncios via Google Ads API (searchStream)
type Connector struct {
	cfg        *config.Config
	httpClient *http.Client
}

func New(cfg *config.Config) *Connector {
	return &Connector{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

func (c *Connector) Platform() domain.Platform {
	return domain.PlatformGoogle
}

type searchResult struct {
	AdGroup struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"adGroup"`
	Campaign struct {
		ID string `json:"id"`
	} `json:"campaign"`
	Metrics struct {
		CostMicros      string  `json:"costMicros"`
		Conversions     float64 `json:"conversions"`
		ConversionValue float64 `json:"conversionsValue"`
		Impressions     string  `json:"impressions"`
		Clicks          string  `json:"clicks"`
	} `json:"metrics"`
	Segments struct {
		Date string `json:"date"`
	} `json:"segments"`
}

type streamChunk struct {
	Results []searchResult `json:"results"`
}

func (c *Connector) Fetch(ctx context.Context, window domain.SyncWindow) ([]*domain.MetricRecord, error) {
	query := fmt.Sprintf(
		"SELECT ad_group.id, ad_group.name, campaign.id, segments.date, "+
			"metrics.cost_micros, metrics.conversions, metrics.conversions_value, "+
			"metrics.impressions, metrics.clicks "+
			"FROM ad_group WHERE segments.date BETWEEN '%s' AND '%s'",
		window.Start.Format(time.DateOnly),
		window.End.Format(time.DateOnly),
	)

	chunks, err := c.searchStream(ctx, query)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.MetricRecord, 0)
	for _, chunk := range chunks {
		for _, result := range chunk.Results {
			record, err := resultToRecord(result)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"ad_group_id": result.AdGroup.ID,
					"error":       err.Error(),
				}).Warn("Linha de métricas do Google Ads descartada por dados inválidos")
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// EntityStates informa os grupos de anúncios pausados, considerando também a campanha
func (c *Connector) EntityStates(ctx context.Context) (map[string]bool, error) {
	query := "SELECT ad_group.id, ad_group.status, campaign.status FROM ad_group"

	type stateResult struct {
		AdGroup struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"adGroup"`
		Campaign struct {
			Status string `json:"status"`
		} `json:"campaign"`
	}
	type stateChunk struct {
		Results []stateResult `json:"results"`
	}

	body, err := c.post(ctx, query)
	if err != nil {
		return nil, err
	}

	var chunks []stateChunk
	if err := json.Unmarshal(body, &chunks); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta de status do Google Ads")
	}

	states := make(map[string]bool)
	for _, chunk := range chunks {
		for _, result := range chunk.Results {
			states[result.AdGroup.ID] = result.AdGroup.Status == "PAUSED" || result.Campaign.Status == "PAUSED"
		}
	}

	return states, nil
}

func (c *Connector) searchStream(ctx context.Context, query string) ([]streamChunk, error) {
	body, err := c.post(ctx, query)
	if err != nil {
		return nil, err
	}

	var chunks []streamChunk
	if err := json.Unmarshal(body, &chunks); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta do Google Ads")
	}

	return chunks, nil
}

func (c *Connector) post(ctx context.Context, query string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/googleAds:searchStream", c.cfg.Google.URL, c.cfg.Google.CustomerID)

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao montar a requisição para o Google Ads")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição para o Google Ads")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Google.AccessToken)
	req.Header.Set("developer-token", c.cfg.Google.DeveloperToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformGoogle, Cause: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &connector.AuthError{Platform: domain.PlatformGoogle, Detail: resp.Status}
	case http.StatusTooManyRequests:
		return nil, &connector.RateLimitedError{
			Platform:   domain.PlatformGoogle,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	body, err := connector.ReadBody(resp)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformGoogle, Cause: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &connector.TransientNetworkError{
			Platform: domain.PlatformGoogle,
			Cause:    fmt.Errorf("erro da API do Google Ads (%s): %s", resp.Status, string(body)),
		}
	}

	return body, nil
}

func resultToRecord(result searchResult) (*domain.MetricRecord, error) {
	date, err := time.Parse(time.DateOnly, result.Segments.Date)
	if err != nil {
		return nil, fmt.Errorf("segments.date inválido: %w", err)
	}

	costMicros, _ := parseInt(result.Metrics.CostMicros)
	impressions, _ := parseInt(result.Metrics.Impressions)
	clicks, _ := parseInt(result.Metrics.Clicks)

	var parentID *string
	if result.Campaign.ID != "" {
		campaignID := result.Campaign.ID
		parentID = &campaignID
	}

	record := &domain.MetricRecord{
		Platform:        domain.PlatformGoogle,
		EntityID:        result.AdGroup.ID,
		EntityName:      result.AdGroup.Name,
		ParentID:        parentID,
		ReportingStarts: date,
		ReportingEnds:   date,
		Spend:           float64(costMicros) / 1e6,
		Revenue:         result.Metrics.ConversionValue,
		Purchases:       int64(result.Metrics.Conversions),
		Impressions:     impressions,
		Clicks:          clicks,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

func parseInt(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
