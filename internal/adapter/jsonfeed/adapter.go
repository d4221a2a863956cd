package jsonfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"
	"CultureSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Type 配置中 sources.<name>.type 的取值
const Type = "jsonfeed"

const maxBodyBytes = 16 << 20

func init() {
	adapter.Register(Type, NewJSONFeedAdapter)
}

// Adapter 通用 JSON 事件源：响应体为候选事件数组，或 {"events": [...]}
type Adapter struct {
	name       string
	cfg        *config.SourceConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
	retryWait  time.Duration
}

func NewJSONFeedAdapter(name string, cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Adapter{
		name:       name,
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		retryWait:  time.Second,
	}
}

func (a *Adapter) GetName() string {
	return a.name
}

func (a *Adapter) GetType() string {
	return Type
}

// FetchCandidates 拉取事件列表，失败按 retry_count 重试
func (a *Adapter) FetchCandidates(ctx context.Context) ([]*model.RawCandidate, error) {
	feedURL := strings.TrimRight(a.cfg.BaseURL, "/") + "/" + strings.TrimLeft(a.cfg.Path, "/")
	log := a.logger.WithFields(logrus.Fields{"source": a.name, "url": feedURL})

	var lastErr error
	for attempt := 0; attempt <= a.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.retryWait * time.Duration(attempt)):
			}
		}
		candidates, err := a.fetchOnce(ctx, feedURL)
		if err == nil {
			metrics.IncFetch(a.name, "ok")
			log.WithField("count", len(candidates)).Info("数据源抓取完成")
			return candidates, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.WithError(err).WithField("attempt", attempt+1).Warn("数据源抓取失败")
	}
	metrics.IncFetch(a.name, "error")
	return nil, fmt.Errorf("抓取数据源%s失败: %w", a.name, lastErr)
}

func (a *Adapter) fetchOnce(ctx context.Context, feedURL string) ([]*model.RawCandidate, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("响应状态码异常: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	return decodeFeed(body)
}

// decodeFeed 兼容数组与 {"events": [...]} 两种格式
func decodeFeed(body []byte) ([]*model.RawCandidate, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var list []*model.RawCandidate
	if body[0] == '[' {
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("解析事件列表失败: %w", err)
		}
		return list, nil
	}
	var wrapped struct {
		Events []*model.RawCandidate `json:"events"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("解析事件列表失败: %w", err)
	}
	return wrapped.Events, nil
}

// Enrich 配置了固定主办方时覆盖候选事件的主办方
func (a *Adapter) Enrich(c *model.EventCandidate) {
	if a.cfg.Organizer == "" {
		return
	}
	organizer := a.cfg.Organizer
	c.Organizer = &organizer
}
