package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-performance-sync/infrastructure/connector"
	"github.com/vfg2006/ad-performance-sync/internal/config"
	"github.com/vfg2006/ad-performance-sync/internal/domain"
)

// Connector busca métricas diárias por anúncio na Graph API do Meta
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
	return domain.PlatformMeta
}

type insightRow struct {
	AdID         string       `json:"ad_id"`
	AdName       string       `json:"ad_name"`
	CampaignID   string       `json:"campaign_id"`
	Spend        string       `json:"spend"`
	Impressions  string       `json:"impressions"`
	Clicks       string       `json:"clicks"`
	DateStart    string       `json:"date_start"`
	DateStop     string       `json:"date_stop"`
	Actions      []actionItem `json:"actions"`
	ActionValues []actionItem `json:"action_values"`
}

type actionItem struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type insightsResponse struct {
	Data   []insightRow `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

const purchaseActionType = "offsite_conversion.fb_pixel_purchase"

// Fetch busca uma linha por anúncio por dia dentro da janela
func (c *Connector) Fetch(ctx context.Context, window domain.SyncWindow) ([]*domain.MetricRecord, error) {
	params := url.Values{}
	params.Add("level", "ad")
	params.Add("fields", "ad_id,ad_name,campaign_id,spend,impressions,clicks,actions,action_values")
	params.Add("time_increment", "1")
	params.Add("time_range", fmt.Sprintf(
		"{\"since\":\"%s\",\"until\":\"%s\"}",
		window.Start.Format(time.DateOnly),
		window.End.Format(time.DateOnly),
	))
	params.Add("access_token", c.cfg.Meta.AccessToken)

	endpoint := fmt.Sprintf("%s/act_%s/insights?%s", c.cfg.Meta.URL, c.cfg.Meta.AccountID, params.Encode())

	records := make([]*domain.MetricRecord, 0)
	for endpoint != "" {
		response, err := c.doRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		for _, row := range response.Data {
			record, err := rowToRecord(row)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"ad_id": row.AdID,
					"error": err.Error(),
				}).Warn("Linha de insight do Meta descartada por dados inválidos")
				continue
			}
			records = append(records, record)
		}

		endpoint = response.Paging.Next
	}

	return records, nil
}

// EntityStates informa os anúncios com effective_status pausado
func (c *Connector) EntityStates(ctx context.Context) (map[string]bool, error) {
	params := url.Values{}
	params.Add("fields", "id,effective_status")
	params.Add("access_token", c.cfg.Meta.AccessToken)

	endpoint := fmt.Sprintf("%s/act_%s/ads?%s", c.cfg.Meta.URL, c.cfg.Meta.AccountID, params.Encode())

	type adRow struct {
		ID              string `json:"id"`
		EffectiveStatus string `json:"effective_status"`
	}
	type adsResponse struct {
		Data   []adRow `json:"data"`
		Paging struct {
			Next string `json:"next"`
		} `json:"paging"`
		Error *apiError `json:"error"`
	}

	states := make(map[string]bool)
	for endpoint != "" {
		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		var response adsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar resposta de status do Meta")
		}
		if response.Error != nil {
			return nil, c.apiErrorToTyped(response.Error)
		}

		for _, ad := range response.Data {
			// effective_status agrega o status do anúncio e de todos os escopos pai
			states[ad.ID] = ad.EffectiveStatus == "PAUSED" || ad.EffectiveStatus == "CAMPAIGN_PAUSED" || ad.EffectiveStatus == "ADSET_PAUSED"
		}

		endpoint = response.Paging.Next
	}

	return states, nil
}

func (c *Connector) doRequest(ctx context.Context, endpoint string) (*insightsResponse, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response insightsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta de insights do Meta")
	}
	if response.Error != nil {
		return nil, c.apiErrorToTyped(response.Error)
	}

	return &response, nil
}

func (c *Connector) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição para o Meta")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformMeta, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &connector.RateLimitedError{
			Platform:   domain.PlatformMeta,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	body, err := connector.ReadBody(resp)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformMeta, Cause: err}
	}

	return body, nil
}

// apiErrorToTyped converte o erro da Graph API para o erro tipado do conector.
// Código 190 é token expirado; OAuthException cobre os demais problemas de credencial.
func (c *Connector) apiErrorToTyped(apiErr *apiError) error {
	if apiErr.Code == 190 || apiErr.Type == "OAuthException" {
		return &connector.AuthError{Platform: domain.PlatformMeta, Detail: apiErr.Message}
	}
	if apiErr.Code == 17 || apiErr.Code == 4 {
		return &connector.RateLimitedError{Platform: domain.PlatformMeta}
	}
	return &connector.TransientNetworkError{
		Platform: domain.PlatformMeta,
		Cause:    fmt.Errorf("erro da API do Meta (%d): %s", apiErr.Code, apiErr.Message),
	}
}

func rowToRecord(row insightRow) (*domain.MetricRecord, error) {
	starts, err := time.Parse(time.DateOnly, row.DateStart)
	if err != nil {
		return nil, fmt.Errorf("date_start inválido: %w", err)
	}
	ends, err := time.Parse(time.DateOnly, row.DateStop)
	if err != nil {
		return nil, fmt.Errorf("date_stop inválido: %w", err)
	}

	spend, _ := strconv.ParseFloat(row.Spend, 64)
	impressions, _ := strconv.ParseInt(row.Impressions, 10, 64)
	clicks, _ := strconv.ParseInt(row.Clicks, 10, 64)

	var parentID *string
	if row.CampaignID != "" {
		campaignID := row.CampaignID
		parentID = &campaignID
	}

	record := &domain.MetricRecord{
		Platform:        domain.PlatformMeta,
		EntityID:        row.AdID,
		EntityName:      row.AdName,
		ParentID:        parentID,
		ReportingStarts: starts,
		ReportingEnds:   ends,
		Spend:           spend,
		Impressions:     impressions,
		Clicks:          clicks,
		Purchases:       actionCount(row.Actions, purchaseActionType),
		Revenue:         actionValue(row.ActionValues, purchaseActionType),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

func actionCount(actions []actionItem, actionType string) int64 {
	for _, action := range actions {
		if action.ActionType == actionType {
			count, _ := strconv.ParseInt(action.Value, 10, 64)
			return count
		}
	}
	return 0
}

func actionValue(actions []actionItem, actionType string) float64 {
	for _, action := range actions {
		if action.ActionType == actionType {
			value, _ := strconv.ParseFloat(action.Value, 64)
			return value
		}
	}
	return 0
}
