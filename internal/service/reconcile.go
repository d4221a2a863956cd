package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"
	"CultureSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrichFunc 数据源专属的补充逻辑（如固定主办方），在规范化之后、日期合成之前执行；不能改变场馆/城市归属
type EnrichFunc func(c *model.EventCandidate)

// ReconcileRequest 一次对账的输入：按到达顺序处理的候选事件与目标场馆/城市
type ReconcileRequest struct {
	Source           string // 数据源标识，用于执行记录与指标
	Candidates       []*model.RawCandidate
	VenueID          uint64
	CityID           uint64 // 0 时取场馆所属城市
	VenueName        string // 为空时取 venues.name
	DefaultSourceURL string // 候选缺少链接时使用（列表页，只存储不参与匹配）
	Enrich           EnrichFunc
}

// ReconcileResult 对账计数
type ReconcileResult struct {
	RunUUID     string         `json:"run_uuid"`
	Total       int            `json:"total"`
	Created     int            `json:"created"`
	Updated     int            `json:"updated"`
	Unchanged   int            `json:"unchanged"`
	Skipped     int            `json:"skipped"`
	Errors      int            `json:"errors"`
	SkipReasons map[string]int `json:"skip_reasons"`
}

// ReconcileService 入库对账引擎：规范化 → 日期合成 → 场馆归属校验 → 分层匹配 → 合并/新建，每条候选事件独立事务
type ReconcileService struct {
	db            *gorm.DB
	venueRepo     repository.VenueRepository
	cityRepo      repository.CityRepository
	canonicalRepo repository.CanonicalRepository
	runRepo       repository.IngestionRunRepository
	normalizer    *CandidateNormalizer
	dates         *DateSynthesizer
	affinity      *AffinityValidator
	matcher       *MatchResolver
	logger        *logrus.Logger
	now           func() time.Time

	// 本进程内同一场馆同一时刻只允许一个对账在跑；跨进程不做互斥
	running sync.Map
}

func NewReconcileService(db *gorm.DB, cfg config.IngestConfig, affinity *AffinityValidator, logger *logrus.Logger) *ReconcileService {
	if affinity == nil {
		affinity = NewAffinityValidator(nil)
	}
	return &ReconcileService{
		db:            db,
		venueRepo:     repository.NewVenueRepository(db),
		cityRepo:      repository.NewCityRepository(db),
		canonicalRepo: repository.NewCanonicalRepository(db),
		runRepo:       repository.NewIngestionRunRepository(db),
		normalizer:    NewCandidateNormalizer(logger),
		dates:         NewDateSynthesizer(cfg.OngoingWindowDays, cfg.PlaceholderHorizonYears),
		affinity:      affinity,
		matcher:       NewMatchResolver(),
		logger:        logger,
		now:           time.Now,
	}
}

// runContext 一次对账内各候选事件共享的上下文
type runContext struct {
	req       *ReconcileRequest
	venue     *model.Venue
	cityID    uint64
	venueName string
	today     time.Time
}

// Reconcile 按顺序对账所有候选事件。单条失败只回滚该条并继续；
// 只有场馆/城市不存在等整批无法执行的情况才返回 error
func (s *ReconcileService) Reconcile(ctx context.Context, req *ReconcileRequest) (*ReconcileResult, error) {
	if req == nil {
		return nil, errors.New("对账请求为空")
	}
	if _, busy := s.running.LoadOrStore(req.VenueID, struct{}{}); busy {
		return nil, ErrSyncInProgress
	}
	defer s.running.Delete(req.VenueID)

	venue, err := s.venueRepo.GetVenueByID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("查询场馆%d失败: %w", req.VenueID, err)
	}
	cityID := req.CityID
	if cityID == 0 {
		cityID = venue.CityID
	}
	if _, err := s.cityRepo.GetCityByID(ctx, cityID); err != nil {
		return nil, fmt.Errorf("查询城市%d失败: %w", cityID, err)
	}
	venueName := req.VenueName
	if venueName == "" {
		venueName = venue.Name
	}

	rc := &runContext{req: req, venue: venue, cityID: cityID, venueName: venueName, today: dateOf(s.now())}
	startedAt := time.Now()
	result := &ReconcileResult{
		RunUUID:     uuid.NewString(),
		Total:       len(req.Candidates),
		SkipReasons: make(map[string]int),
	}
	log := s.logger.WithFields(logrus.Fields{
		"run_uuid": result.RunUUID,
		"source":   req.Source,
		"venue_id": venue.ID,
		"city_id":  cityID,
	})

	for i, raw := range req.Candidates {
		outcome, tier, err := s.reconcileOne(ctx, raw, rc)
		switch outcome {
		case metrics.OutcomeCreated:
			result.Created++
		case metrics.OutcomeUpdated:
			result.Updated++
		case metrics.OutcomeUnchanged:
			result.Unchanged++
		case metrics.OutcomeSkipped:
			result.Skipped++
			reason, _ := skipReasonOf(err)
			result.SkipReasons[string(reason)]++
			metrics.IncSkip(string(reason))
			log.WithField("index", i).WithError(err).Debug("候选事件跳过")
		default:
			result.Errors++
			log.WithField("index", i).WithError(err).Warn("候选事件入库失败，已回滚")
		}
		if tier != "" {
			metrics.IncMatch(tier)
		}
		metrics.IncOutcome(venue.ID, outcome)
	}

	finishedAt := time.Now()
	metrics.ObserveRun(req.Source, finishedAt.Sub(startedAt))
	s.saveRun(ctx, result, req.Source, venue.ID, cityID, startedAt, finishedAt)

	log.WithFields(logrus.Fields{
		"total":     result.Total,
		"created":   result.Created,
		"updated":   result.Updated,
		"unchanged": result.Unchanged,
		"skipped":   result.Skipped,
		"errors":    result.Errors,
	}).Infof("对账完成：%s", venueName)
	return result, nil
}

// reconcileOne 处理单条候选事件，返回结果与命中层级。panic 在此兜住，不影响后续候选
func (s *ReconcileService) reconcileOne(ctx context.Context, raw *model.RawCandidate, rc *runContext) (outcome, tier string, err error) {
	defer func() {
		if p := recover(); p != nil {
			outcome = metrics.OutcomeError
			err = &PersistenceError{Op: "处理候选事件", Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if raw == nil {
		return metrics.OutcomeSkipped, "", &ValidationError{Reason: SkipNoTitle}
	}
	c, err := s.normalizer.Normalize(raw)
	if err != nil {
		return classify(err), "", err
	}
	if rc.req.Enrich != nil {
		rc.req.Enrich(c)
		c.Title = strings.TrimSpace(c.Title)
		if c.Title == "" {
			return metrics.OutcomeSkipped, "", &ValidationError{Reason: SkipNoTitle}
		}
	}
	// 归属以本次对账为准，补充逻辑不能改
	c.VenueID = rc.venue.ID
	c.CityID = rc.cityID
	if c.SourceURL == nil && rc.req.DefaultSourceURL != "" {
		u := rc.req.DefaultSourceURL
		c.SourceURL = &u
		c.SourceURLDefaulted = true
	}
	if err := s.dates.Apply(c, rc.today); err != nil {
		return classify(err), "", err
	}
	if err := s.affinity.Check(c, rc.venueName); err != nil {
		return classify(err), "", err
	}
	return s.commit(ctx, c, rc.venue)
}

// commit 在独立事务内匹配并合并/新建；成功立即提交，失败只回滚本条
func (s *ReconcileService) commit(ctx context.Context, c *model.EventCandidate, venue *model.Venue) (outcome, tier string, err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return metrics.OutcomeError, "", &PersistenceError{Op: "开启事务", Err: tx.Error}
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	repo := s.canonicalRepo.WithTx(tx)
	existing, tier, err := s.matcher.Resolve(ctx, repo, c, venue)
	if err != nil {
		return metrics.OutcomeError, tier, err
	}

	switch {
	case existing == nil:
		ev := c.ToCanonical()
		if c.SourceURL != nil && !c.SourceURLDefaulted {
			key := NormalizeSourceURL(*c.SourceURL)
			ev.SourceURLKey = &key
		}
		if err := repo.CreateEvent(ctx, ev); err != nil {
			return metrics.OutcomeError, "", &PersistenceError{Op: "新建规范事件", Err: err}
		}
		outcome = metrics.OutcomeCreated
	case MergeEvent(existing, c, venue.ID):
		if err := repo.SaveEvent(ctx, existing); err != nil {
			return metrics.OutcomeError, tier, &PersistenceError{Op: "更新规范事件", Err: err}
		}
		outcome = metrics.OutcomeUpdated
	default:
		outcome = metrics.OutcomeUnchanged
	}

	if err := tx.Commit().Error; err != nil {
		return metrics.OutcomeError, tier, &PersistenceError{Op: "提交事务", Err: err}
	}
	committed = true
	return outcome, tier, nil
}

// saveRun 落库执行记录；失败只记日志
func (s *ReconcileService) saveRun(ctx context.Context, result *ReconcileResult, source string, venueID, cityID uint64, startedAt, finishedAt time.Time) {
	reasons, err := json.Marshal(result.SkipReasons)
	if err != nil {
		reasons = []byte("{}")
	}
	run := &model.IngestionRun{
		RunUUID:     result.RunUUID,
		Source:      source,
		VenueID:     venueID,
		CityID:      cityID,
		Total:       result.Total,
		Created:     result.Created,
		Updated:     result.Updated,
		Unchanged:   result.Unchanged,
		Skipped:     result.Skipped,
		Errors:      result.Errors,
		SkipReasons: datatypes.JSON(reasons),
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
	}
	if err := s.runRepo.CreateRun(ctx, run); err != nil {
		s.logger.WithError(err).WithField("run_uuid", result.RunUUID).Warn("保存执行记录失败")
	}
}

func classify(err error) string {
	if _, ok := skipReasonOf(err); ok {
		return metrics.OutcomeSkipped
	}
	return metrics.OutcomeError
}
