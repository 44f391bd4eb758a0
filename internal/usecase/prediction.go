package usecase

import (
	"context"
	"sync"
	"time"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
	domsvc "CryptoCast/internal/domain/service"
	applogger "CryptoCast/pkg/logger"
)

const sideEffectTimeout = 5 * time.Second

// Gate is the part of the session the use case depends on.
type Gate interface {
	IsAuthenticated() bool
	UserName() string
}

// SubmitResult is a fresh prediction together with its chart and table.
type SubmitResult struct {
	Result *models.PredictionFormResult `json:"result"`
	View   models.PredictionView        `json:"view"`
}

// PredictionUseCase drives a submission from the session gate through
// validation and the forecast call into history.
type PredictionUseCase struct {
	gate      Gate
	validator *RequestValidator
	catalog   *models.Catalog
	forecast  domsvc.PredictionService
	history   domrepo.HistoryStore
	publisher domrepo.EventPublisher
	archive   domrepo.PredictionArchive
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	recentN  int
	previewM int
}

type PredictionOption func(*PredictionUseCase)

func WithPublisher(p domrepo.EventPublisher) PredictionOption {
	return func(uc *PredictionUseCase) { uc.publisher = p }
}

func WithArchive(a domrepo.PredictionArchive) PredictionOption {
	return func(uc *PredictionUseCase) { uc.archive = a }
}

func WithMetrics(m domrepo.Metrics) PredictionOption {
	return func(uc *PredictionUseCase) { uc.metrics = m }
}

func WithLogger(l *applogger.Logger) PredictionOption {
	return func(uc *PredictionUseCase) { uc.logger = l }
}

// WithPageSizes sets how many entries the dashboard and the history preview show.
func WithPageSizes(recentN, previewM int) PredictionOption {
	return func(uc *PredictionUseCase) {
		uc.recentN = recentN
		uc.previewM = previewM
	}
}

func NewPredictionUseCase(
	gate Gate,
	catalog *models.Catalog,
	forecast domsvc.PredictionService,
	history domrepo.HistoryStore,
	opts ...PredictionOption,
) *PredictionUseCase {
	if catalog == nil {
		catalog = models.DefaultCatalog()
	}
	uc := &PredictionUseCase{
		gate:      gate,
		validator: NewRequestValidator(catalog),
		catalog:   catalog,
		forecast:  forecast,
		history:   history,
		recentN:   DefaultRecentCount,
		previewM:  DefaultPreviewCount,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.logger == nil {
		uc.logger = applogger.Nop()
	}
	uc.logger = uc.logger.Component("prediction")
	return uc
}

func (uc *PredictionUseCase) Catalog() *models.Catalog {
	return uc.catalog
}

// Submit validates the selection, asks the forecast service and stores the
// result. History is only touched on success.
func (uc *PredictionUseCase) Submit(ctx context.Context, cryptoID, modelID, rawHorizon string) (*SubmitResult, error) {
	if !uc.gate.IsAuthenticated() {
		return nil, models.ErrUnauthenticated
	}

	req, err := uc.validator.Validate(cryptoID, modelID, rawHorizon)
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	start := time.Now()
	res, err := uc.forecast.Predict(ctx, req)
	uc.recordLatency("forecast", time.Since(start))
	if err != nil {
		uc.recordError(err)
		uc.logger.Warn("prediction.submit failed",
			applogger.String("crypto", req.Crypto.Name),
			applogger.String("model", req.Model.ID),
			applogger.Int("horizon", req.Horizon),
			applogger.String("kind", models.ErrorKind(err)),
			applogger.Error(err),
		)
		return nil, err
	}

	if err := uc.history.Append(ctx, res.HistoryEntry()); err != nil {
		uc.recordError(err)
		return nil, err
	}

	uc.fanOut(ctx, res)

	if uc.metrics != nil {
		uc.metrics.RecordPrediction(res.Crypto, res.Model)
		uc.metrics.RecordLastPrice(res.Crypto, res.PredictedPrice)
	}
	uc.logger.Info("prediction.submit ok",
		applogger.String("id", res.ID),
		applogger.String("crypto", res.Crypto),
		applogger.String("model", res.Model),
		applogger.Int("horizon", res.Horizon),
		applogger.Float64("predicted_price", res.PredictedPrice),
	)

	return &SubmitResult{Result: res, View: BuildView(res)}, nil
}

// History returns the preview page, or the full list when showAll is set.
func (uc *PredictionUseCase) History(_ context.Context, showAll bool) (models.HistoryPage, error) {
	if !uc.gate.IsAuthenticated() {
		return models.HistoryPage{}, models.ErrUnauthenticated
	}
	return Preview(uc.history.List(), uc.previewM, showAll), nil
}

func (uc *PredictionUseCase) Dashboard(_ context.Context) (models.DashboardSummary, error) {
	if !uc.gate.IsAuthenticated() {
		return models.DashboardSummary{}, models.ErrUnauthenticated
	}
	return Summarize(uc.history.List(), uc.recentN), nil
}

// fanOut publishes and archives the stored prediction. Failures are logged only.
func (uc *PredictionUseCase) fanOut(ctx context.Context, res *models.PredictionFormResult) {
	if uc.publisher == nil && uc.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	var wg sync.WaitGroup
	if uc.publisher != nil {
		ev := models.NewPredictionCreatedEvent(res, uc.gate.UserName())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := uc.publisher.PublishPredictionCreated(ctx, ev); err != nil {
				uc.logger.Warn("prediction.publish failed", applogger.String("id", res.ID), applogger.Error(err))
				uc.recordErrorKind("publish")
			}
		}()
	}
	if uc.archive != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := uc.archive.Store(ctx, res); err != nil {
				uc.logger.Warn("prediction.archive failed", applogger.String("id", res.ID), applogger.Error(err))
				uc.recordErrorKind("archive")
			}
		}()
	}
	wg.Wait()
}

func (uc *PredictionUseCase) recordError(err error) {
	uc.recordErrorKind(models.ErrorKind(err))
}

func (uc *PredictionUseCase) recordErrorKind(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

func (uc *PredictionUseCase) recordLatency(op string, d time.Duration) {
	if uc.metrics != nil {
		uc.metrics.RecordLatency(op, d.Seconds())
	}
}
