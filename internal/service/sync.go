package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// SyncService 从已配置的数据源抓取候选事件并交给对账引擎
type SyncService struct {
	registry   *adapter.SourceRegistry
	reconciler *ReconcileService
	cfg        *config.Config
	logger     *logrus.Logger
}

func NewSyncService(registry *adapter.SourceRegistry, reconciler *ReconcileService, cfg *config.Config, logger *logrus.Logger) *SyncService {
	return &SyncService{
		registry:   registry,
		reconciler: reconciler,
		cfg:        cfg,
		logger:     logger,
	}
}

// SyncSource 同步单个数据源
func (s *SyncService) SyncSource(ctx context.Context, name string) (*ReconcileResult, error) {
	src, srcCfg, err := s.registry.GetAdapter(name)
	if err != nil {
		return nil, err
	}
	raws, err := src.FetchCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s爬取事件失败: %w", name, err)
	}
	if len(raws) == 0 {
		s.logger.Warnf("%s未爬取到候选事件", name)
	}

	req := &ReconcileRequest{
		Source:           name,
		Candidates:       raws,
		VenueID:          srcCfg.VenueID,
		CityID:           srcCfg.CityID,
		VenueName:        srcCfg.VenueName,
		DefaultSourceURL: srcCfg.DefaultSourceURL,
	}
	if enricher, ok := src.(interfaces.CandidateEnricher); ok {
		req.Enrich = enricher.Enrich
	}
	result, err := s.reconciler.Reconcile(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s对账失败: %w", name, err)
	}
	return result, nil
}

// SyncEnabled 依次同步 sync.enabled_sources 中的数据源，单个失败不影响其他
func (s *SyncService) SyncEnabled(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for _, name := range s.cfg.Sync.EnabledSources {
		if ctx.Err() != nil {
			failures[name] = ctx.Err()
			continue
		}
		if _, err := s.SyncSource(ctx, name); err != nil {
			failures[name] = err
			entry := s.logger.WithError(err).WithField("source", name)
			if errors.Is(err, ErrSyncInProgress) {
				entry.Info("场馆已有同步在进行，本轮跳过")
			} else {
				entry.Error("定时同步失败")
			}
		}
	}
	return failures
}

// Start 按 sync.interval 周期同步，ctx 取消后退出。interval 为 0 时不启动
func (s *SyncService) Start(ctx context.Context) {
	interval := s.cfg.Sync.Interval
	if interval <= 0 || len(s.cfg.Sync.EnabledSources) == 0 {
		s.logger.Info("未配置定时同步")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"interval": interval.String(),
		"sources":  s.cfg.Sync.EnabledSources,
	}).Info("定时同步已启动")

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.SyncEnabled(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
