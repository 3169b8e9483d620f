package tiktok

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

// Connector busca métricas diárias por anúncio na Business API do TikTok
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
	return domain.PlatformTikTok
}

type reportResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List []reportItem `json:"list"`
		Page struct {
			Page       int `json:"page"`
			TotalPages int `json:"total_page"`
		} `json:"page_info"`
	} `json:"data"`
}

type reportItem struct {
	Dimensions struct {
		AdID     string `json:"ad_id"`
		StatDate string `json:"stat_time_day"`
	} `json:"dimensions"`
	Metrics struct {
		AdName       string `json:"ad_name"`
		CampaignID   string `json:"campaign_id"`
		Spend        string `json:"spend"`
		Impressions  string `json:"impressions"`
		Clicks       string `json:"clicks"`
		Conversions  string `json:"conversion"`
		PaymentValue string `json:"total_purchase_value"`
	} `json:"metrics"`
}

func (c *Connector) Fetch(ctx context.Context, window domain.SyncWindow) ([]*domain.MetricRecord, error) {
	records := make([]*domain.MetricRecord, 0)

	page := 1
	for {
		response, err := c.fetchPage(ctx, window, page)
		if err != nil {
			return nil, err
		}

		for _, item := range response.Data.List {
			record, err := itemToRecord(item)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"ad_id": item.Dimensions.AdID,
					"error": err.Error(),
				}).Warn("Linha de métricas do TikTok descartada por dados inválidos")
				continue
			}
			records = append(records, record)
		}

		if page >= response.Data.Page.TotalPages {
			break
		}
		page++
	}

	return records, nil
}

// EntityStates informa os anúncios com operação pausada em qualquer escopo pai
func (c *Connector) EntityStates(ctx context.Context) (map[string]bool, error) {
	params := url.Values{}
	params.Add("advertiser_id", c.cfg.TikTok.AdvertiserID)
	params.Add("fields", `["ad_id","secondary_status"]`)

	endpoint := fmt.Sprintf("%s/ad/get/?%s", c.cfg.TikTok.URL, params.Encode())

	type adItem struct {
		AdID            string `json:"ad_id"`
		SecondaryStatus string `json:"secondary_status"`
	}
	type adsResponse struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			List []adItem `json:"list"`
		} `json:"data"`
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response adsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta de status do TikTok")
	}
	if response.Code != 0 {
		return nil, c.codeToTyped(response.Code, response.Message)
	}

	states := make(map[string]bool)
	for _, ad := range response.Data.List {
		states[ad.AdID] = ad.SecondaryStatus == "AD_STATUS_CAMPAIGN_DISABLE" ||
			ad.SecondaryStatus == "AD_STATUS_ADGROUP_DISABLE" ||
			ad.SecondaryStatus == "AD_STATUS_DISABLE"
	}

	return states, nil
}

func (c *Connector) fetchPage(ctx context.Context, window domain.SyncWindow, page int) (*reportResponse, error) {
	params := url.Values{}
	params.Add("advertiser_id", c.cfg.TikTok.AdvertiserID)
	params.Add("report_type", "BASIC")
	params.Add("data_level", "AUCTION_AD")
	params.Add("dimensions", `["ad_id","stat_time_day"]`)
	params.Add("metrics", `["ad_name","campaign_id","spend","impressions","clicks","conversion","total_purchase_value"]`)
	params.Add("start_date", window.Start.Format(time.DateOnly))
	params.Add("end_date", window.End.Format(time.DateOnly))
	params.Add("page", strconv.Itoa(page))
	params.Add("page_size", "200")

	endpoint := fmt.Sprintf("%s/report/integrated/get/?%s", c.cfg.TikTok.URL, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response reportResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar resposta de relatório do TikTok")
	}
	if response.Code != 0 {
		return nil, c.codeToTyped(response.Code, response.Message)
	}

	return &response, nil
}

func (c *Connector) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição para o TikTok")
	}
	req.Header.Set("Access-Token", c.cfg.TikTok.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformTikTok, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &connector.RateLimitedError{
			Platform:   domain.PlatformTikTok,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	body, err := connector.ReadBody(resp)
	if err != nil {
		return nil, &connector.TransientNetworkError{Platform: domain.PlatformTikTok, Cause: err}
	}

	return body, nil
}

// codeToTyped converte os códigos da Business API para os erros tipados do conector.
// 40104/40105 indicam token inválido ou expirado; 40100 é limite de requisições.
func (c *Connector) codeToTyped(code int, message string) error {
	switch code {
	case 40104, 40105:
		return &connector.AuthError{Platform: domain.PlatformTikTok, Detail: message}
	case 40100:
		return &connector.RateLimitedError{Platform: domain.PlatformTikTok}
	}
	return &connector.TransientNetworkError{
		Platform: domain.PlatformTikTok,
		Cause:    fmt.Errorf("erro da API do TikTok (%d): %s", code, message),
	}
}

func itemToRecord(item reportItem) (*domain.MetricRecord, error) {
	date, err := time.Parse(time.DateOnly, item.Dimensions.StatDate)
	if err != nil {
		// stat_time_day pode vir com hora ("2006-01-02 00:00:00")
		date, err = time.Parse("2006-01-02 15:04:05", item.Dimensions.StatDate)
		if err != nil {
			return nil, fmt.Errorf("stat_time_day inválido: %w", err)
		}
	}

	spend, _ := strconv.ParseFloat(item.Metrics.Spend, 64)
	revenue, _ := strconv.ParseFloat(item.Metrics.PaymentValue, 64)
	purchases, _ := strconv.ParseInt(item.Metrics.Conversions, 10, 64)
	impressions, _ := strconv.ParseInt(item.Metrics.Impressions, 10, 64)
	clicks, _ := strconv.ParseInt(item.Metrics.Clicks, 10, 64)

	var parentID *string
	if item.Metrics.CampaignID != "" {
		campaignID := item.Metrics.CampaignID
		parentID = &campaignID
	}

	record := &domain.MetricRecord{
		Platform:        domain.PlatformTikTok,
		EntityID:        item.Dimensions.AdID,
		EntityName:      item.Metrics.AdName,
		ParentID:        parentID,
		ReportingStarts: date,
		ReportingEnds:   date,
		Spend:           spend,
		Revenue:         revenue,
		Purchases:       purchases,
		Impressions:     impressions,
		Clicks:          clicks,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}
