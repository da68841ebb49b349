package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"decision-analyzer/internal/ai"
	"decision-analyzer/internal/scoring"
	"decision-analyzer/internal/store"
	"decision-analyzer/internal/util"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	SilentDB       bool
	AllowedOrigins []string
	CatalogPath    string
	DefaultLocale  string
	AIConfig       ai.Config
	DisableAI      bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server wires HTTP handlers with persistence and the evaluator.
type Server struct {
	db             *store.Database
	catalog        *scoring.Catalog
	defaultLocale  string
	allowedOrigins []string
	explainer      ai.Explainer
	modelNarrative bool
	notifier       *EvaluationNotifier
	limiter        *IPRateLimiter
}

const explainTimeout = 20 * time.Second

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}

	catalog := scoring.DefaultCatalog()
	if path := strings.TrimSpace(cfg.CatalogPath); path != "" {
		loaded, err := scoring.NewCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		catalog = loaded
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"locales": catalog.Locales(),
		}).Info("custom catalog loaded")
	}

	locale := strings.TrimSpace(cfg.DefaultLocale)
	if locale == "" {
		locale = scoring.DefaultLocale
	}
	if !catalog.HasLocale(locale) {
		return nil, fmt.Errorf("default locale %q not in catalog", locale)
	}

	var explainer ai.Explainer = ai.NewTemplateExplainer()
	modelNarrative := false
	if cfg.DisableAI {
		logrus.Info("model narratives disabled via configuration")
	} else if client, err := ai.NewClient(cfg.AIConfig); err == nil {
		explainer = ai.WithFallback(client, explainer)
		modelNarrative = true
		logrus.WithField("model", cfg.AIConfig.Model).Info("model narratives enabled")
	} else if errors.Is(err, ai.ErrDisabled) {
		logrus.Info("model narratives disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("ai client: %w", err)
	}

	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	server := &Server{
		db:             db,
		catalog:        catalog,
		defaultLocale:  locale,
		allowedOrigins: cfg.AllowedOrigins,
		explainer:      explainer,
		modelNarrative: modelNarrative,
		notifier:       NewEvaluationNotifier(),
	}
	if cfg.RateLimitRPS > 0 {
		server.limiter = NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return server, nil
}

// Close releases the database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(RateLimitMiddleware(s.limiter))
	}
	{
		api.GET("/config", s.handleConfig)
		api.GET("/quadrants", s.handleQuadrants)
		api.POST("/evaluate", s.handleEvaluate)
		api.GET("/evaluations", s.handleListEvaluations)
		api.GET("/evaluations/stream", s.handleEvaluationStream)
		api.GET("/evaluations/:id", s.handleGetEvaluation)
		api.DELETE("/evaluations/:id", s.handleDeleteEvaluation)
		api.GET("/stats", s.handleStats)
		api.POST("/batches", s.handleUploadBatch)
		api.GET("/batches", s.handleListBatches)
		api.GET("/batches/:id", s.handleGetBatch)
		api.GET("/batches/:id/results", s.handleBatchResults)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	locale := s.resolveLocale(c.Query("locale"))
	scenarios := make([]string, 0, 2)
	for _, sc := range scoring.Scenarios() {
		scenarios = append(scenarios, string(sc))
	}
	models := make([]OptionDTO, 0, 2)
	for _, m := range scoring.Models() {
		models = append(models, OptionDTO{Code: string(m), Text: s.catalog.ModelText(m, locale)})
	}
	c.JSON(http.StatusOK, gin.H{
		"scenarios":          scenarios,
		"comparison_models":  models,
		"locales":            s.catalog.Locales(),
		"default_locale":     s.defaultLocale,
		"probable_threshold": scoring.ProbableThreshold,
		"model_narratives":   s.modelNarrative,
	})
}

func (s *Server) handleQuadrants(c *gin.Context) {
	locale := s.resolveLocale(c.Query("locale"))
	rows := make([]QuadrantDTO, 0, 4)
	for _, sc := range scoring.Scenarios() {
		for _, probable := range []bool{true, false} {
			p, condition := 0.0, fmt.Sprintf("p < %.2f", scoring.ProbableThreshold)
			if probable {
				p, condition = scoring.ProbableThreshold, fmt.Sprintf("p >= %.2f", scoring.ProbableThreshold)
			}
			q := s.catalog.Classify(sc, p, locale)
			rows = append(rows, QuadrantDTO{
				Quadrant:        int(q.Quadrant),
				Scenario:        string(sc),
				Probable:        probable,
				Condition:       condition,
				Title:           q.Title,
				BiasLabel:       q.BiasLabel,
				BiasDescription: q.BiasDescription,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body required")
		}
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	input, err := requestInput(req)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	locale := s.resolveLocale(req.Locale)
	result, err := s.catalog.EvaluateStrict(input, locale)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	row := modelFromResult(result, locale, req.Label)
	if req.Explain {
		s.explain(c.Request.Context(), &row, result, locale)
	}

	status := http.StatusOK
	if !req.DryRun {
		if err := s.db.SaveEvaluation(&row); err != nil {
			s.renderError(c, http.StatusInternalServerError, fmt.Errorf("save evaluation: %w", err))
			return
		}
		status = http.StatusCreated
	}

	dto := FromModel(row, s.catalog)
	logrus.WithFields(logrus.Fields{
		"id":             row.PublicID,
		"scenario":       row.Scenario,
		"quadrant":       row.Quadrant,
		"recommendation": row.Recommendation,
		"dry_run":        req.DryRun,
	}).Debug("decision evaluated")
	if !req.DryRun {
		s.notifier.Broadcast(EvaluationEvent{Type: eventEvaluation, Evaluation: &dto})
	}
	c.JSON(status, dto)
}

// explain attaches a narrative to row. Failures are logged and leave the
// row without narrative.
func (s *Server) explain(ctx context.Context, row *store.Evaluation, result scoring.Result, locale string) {
	if s.explainer == nil || !s.explainer.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, explainTimeout)
	defer cancel()

	decision, err := s.explainer.Explain(ctx, ai.ExplanationInput{
		Result:             result,
		Locale:             locale,
		Label:              row.Label,
		ModelText:          s.catalog.ModelText(result.Model, locale),
		RecommendationText: s.catalog.RecommendationText(result.Recommendation, locale),
	})
	if err != nil {
		logrus.WithError(err).Warn("explain evaluation")
		return
	}
	row.Narrative = decision.Narrative
	row.NarrativeSource = decision.Source
}

func (s *Server) handleListEvaluations(c *gin.Context) {
	batchID := uint(0)
	if value := strings.TrimSpace(firstNonEmpty(c.Query("batch_id"), c.Query("batchId"))); value != "" {
		parsed, err := parseUintParam(value)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid batch_id: %s", value))
			return
		}
		batchID = parsed
	}
	s.renderEvaluations(c, batchID)
}

func (s *Server) renderEvaluations(c *gin.Context, batchID uint) {
	query, err := evaluationQuery(c, batchID)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	rows, total, err := s.db.ListEvaluations(query)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]EvaluationDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row, s.catalog))
	}
	c.JSON(http.StatusOK, EvaluationsResponse{Items: dtos, Total: total})
}

func evaluationQuery(c *gin.Context, batchID uint) (store.EvaluationQuery, error) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 100
	}

	query := store.EvaluationQuery{
		Recommendation: strings.TrimSpace(c.Query("recommendation")),
		Sort:           strings.TrimSpace(c.Query("sort")),
		Offset:         page * pageSize,
		Limit:          pageSize,
		BatchID:        batchID,
	}
	if v := strings.TrimSpace(c.Query("scenario")); v != "" {
		scenario, err := scoring.ParseScenario(v)
		if err != nil {
			return query, err
		}
		query.Scenario = string(scenario)
	}
	if v := strings.TrimSpace(c.Query("model")); v != "" {
		model, err := scoring.ParseComparisonModel(v)
		if err != nil {
			return query, err
		}
		query.Model = string(model)
	}
	if v := strings.TrimSpace(c.Query("quadrant")); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 4 {
			return query, fmt.Errorf("%w: quadrant must be 1-4", scoring.ErrInvalidInput)
		}
		query.Quadrant = q
	}
	return query, nil
}

func (s *Server) handleGetEvaluation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	row, err := s.db.GetEvaluation(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("evaluation %s not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromModel(*row, s.catalog))
}

func (s *Server) handleDeleteEvaluation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.db.DeleteEvaluation(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("evaluation %s not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	s.notifier.Broadcast(EvaluationEvent{Type: eventDeleted, ID: id})
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleEvaluationStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("evaluation websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("evaluation websocket closed")
			} else {
				logrus.WithError(err).Warn("evaluation websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) handleStats(c *gin.Context) {
	batchID := uint(0)
	if value := strings.TrimSpace(c.Query("batch_id")); value != "" {
		parsed, err := parseUintParam(value)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid batch_id: %s", value))
			return
		}
		batchID = parsed
	}
	quadrants, recommendations, total, err := s.summary(batchID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Total: total, Quadrants: quadrants, Recommendations: recommendations})
}

func (s *Server) summary(batchID uint) (map[string]int64, map[string]int64, int64, error) {
	quadrantRows, err := s.db.QuadrantSummary(batchID)
	if err != nil {
		return nil, nil, 0, err
	}
	recRows, err := s.db.RecommendationSummary(batchID)
	if err != nil {
		return nil, nil, 0, err
	}
	quadrants := make(map[string]int64, 4)
	for _, q := range scoring.Quadrants() {
		quadrants[strconv.Itoa(int(q))] = 0
	}
	var total int64
	for _, row := range quadrantRows {
		quadrants[strconv.Itoa(row.Quadrant)] = row.Total
		total += row.Total
	}
	recommendations := map[string]int64{
		string(scoring.PreferSafe):  0,
		string(scoring.PreferRisky): 0,
		string(scoring.Equivalent):  0,
	}
	for _, row := range recRows {
		recommendations[row.Recommendation] = row.Total
	}
	return quadrants, recommendations, total, nil
}

func (s *Server) handleUploadBatch(c *gin.Context) {
	batchName := strings.TrimSpace(c.PostForm("batch_name"))
	if batchName == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("batch_name is required"))
		return
	}
	ownerName := strings.TrimSpace(c.PostForm("owner_name"))
	if ownerName == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("owner_name is required"))
		return
	}
	locale := s.resolveLocale(c.PostForm("locale"))

	fileHeader, err := c.FormFile("scenarios")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = errors.New("scenarios csv file is required")
		}
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	timer := util.StartTimer()
	parsed, err := parseScenarioCSV(file)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if parsed.rowCount == 0 {
		s.renderError(c, http.StatusBadRequest, errors.New("no scenarios detected in csv"))
		return
	}

	rows := make([]store.Evaluation, 0, len(parsed.rows))
	for _, sr := range parsed.rows {
		row := modelFromResult(s.catalog.Evaluate(sr.input, locale), locale, sr.label)
		row.RowIndex = sr.rowIndex
		rows = append(rows, row)
	}

	batch := &store.Batch{
		Name:             batchName,
		Owner:            ownerName,
		OriginalFilename: fileHeader.Filename,
		RowCount:         parsed.rowCount,
		EvaluatedRows:    len(rows),
		InvalidRows:      len(parsed.errors),
		ProcessingTimeMs: timer.ElapsedMs(),
	}
	if err := s.db.CreateBatchWithEvaluations(batch, rows); err != nil {
		s.renderError(c, http.StatusInternalServerError, fmt.Errorf("store batch evaluations: %w", err))
		return
	}

	quadrants, recommendations, _, err := s.summary(batch.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	dto := BatchFromModel(*batch)
	logrus.WithFields(logrus.Fields{
		"batch_id":  batch.ID,
		"job_id":    batch.JobID,
		"rows":      batch.RowCount,
		"evaluated": batch.EvaluatedRows,
		"invalid":   batch.InvalidRows,
		"duration":  timer.Elapsed(),
	}).Info("batch evaluated")
	s.notifier.Broadcast(EvaluationEvent{Type: eventBatch, Batch: &dto, Message: fmt.Sprintf("%d scenarios evaluated", batch.EvaluatedRows)})

	errs := parsed.errors
	if errs == nil {
		errs = []RowError{}
	}
	c.JSON(http.StatusCreated, BatchUploadResponse{
		Batch:           dto,
		Errors:          errs,
		Quadrants:       quadrants,
		Recommendations: recommendations,
	})
}

func (s *Server) handleListBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}

	rows, total, err := s.db.ListBatches(page*pageSize, pageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]BatchDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, BatchFromModel(row))
	}
	c.JSON(http.StatusOK, BatchesResponse{Items: dtos, Total: total})
}

func (s *Server) handleGetBatch(c *gin.Context) {
	batch, ok := s.lookupBatch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, BatchFromModel(*batch))
}

func (s *Server) handleBatchResults(c *gin.Context) {
	batch, ok := s.lookupBatch(c)
	if !ok {
		return
	}
	s.renderEvaluations(c, batch.ID)
}

func (s *Server) lookupBatch(c *gin.Context) (*store.Batch, bool) {
	batchID, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return nil, false
	}
	batch, err := s.db.GetBatch(batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("batch %d not found", batchID))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return batch, true
}

func (s *Server) exportRows(c *gin.Context) ([]EvaluationDTO, bool) {
	batchID := uint(0)
	if value := strings.TrimSpace(firstNonEmpty(c.Query("batch_id"), c.Query("batchId"))); value != "" {
		parsed, err := parseUintParam(value)
		if err != nil {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid batch_id: %s", value))
			return nil, false
		}
		batchID = parsed
	}
	sort := "created_asc"
	if batchID > 0 {
		sort = "row_asc"
	}
	rows, _, err := s.db.ListEvaluations(store.EvaluationQuery{Limit: -1, BatchID: batchID, Sort: sort})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	dtos := make([]EvaluationDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row, s.catalog))
	}
	return dtos, true
}

func (s *Server) handleExportCSV(c *gin.Context) {
	dtos, ok := s.exportRows(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", "attachment; filename=decision-export.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := []string{"id", "batch_id", "row_index", "label", "scenario", "comparison_model", "risk_probability", "safe_probability", "safe_value", "risky_value", "safe_expected_value", "risky_expected_value", "quadrant", "bias_label", "recommendation", "created_at"}
	if err := writer.Write(headers); err != nil {
		return
	}
	for _, dto := range dtos {
		batchID := ""
		if dto.BatchID != nil {
			batchID = strconv.FormatUint(uint64(*dto.BatchID), 10)
		}
		created := ""
		if dto.CreatedAt != nil {
			created = dto.CreatedAt.UTC().Format(time.RFC3339)
		}
		line := []string{
			dto.ID,
			batchID,
			strconv.Itoa(dto.RowIndex),
			dto.Label,
			dto.Scenario,
			dto.ComparisonModel,
			strconv.FormatFloat(dto.RiskProbability, 'f', -1, 64),
			strconv.FormatFloat(dto.SafeProbability, 'f', -1, 64),
			strconv.FormatFloat(dto.SafeValue, 'f', -1, 64),
			strconv.FormatFloat(dto.RiskyValue, 'f', -1, 64),
			strconv.FormatFloat(dto.SafeExpectedValue, 'f', -1, 64),
			strconv.FormatFloat(dto.RiskyExpectedValue, 'f', -1, 64),
			strconv.Itoa(dto.Quadrant),
			dto.BiasLabel,
			dto.Recommendation,
			created,
		}
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	dtos, ok := s.exportRows(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", "attachment; filename=decision-export.json")
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) resolveLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale != "" && s.catalog.HasLocale(locale) {
		return locale
	}
	return s.defaultLocale
}

// requestInput turns a request body into evaluator input. Negative payoffs
// are rejected here; the evaluator itself accepts them.
func requestInput(req EvaluateRequest) (scoring.Input, error) {
	scenario, err := scoring.ParseScenario(req.Scenario)
	if err != nil {
		return scoring.Input{}, err
	}
	model, err := scoring.ParseComparisonModel(req.ComparisonModel)
	if err != nil {
		return scoring.Input{}, err
	}
	if req.RiskProbability == nil {
		return scoring.Input{}, fmt.Errorf("%w: risk_probability is required", scoring.ErrInvalidInput)
	}
	input := scoring.Input{
		Scenario:        scenario,
		RiskProbability: *req.RiskProbability,
		SafeValue:       req.SafeValue,
		RiskyValue:      req.RiskyValue,
		Model:           model,
	}
	if err := checkNonNegative(input); err != nil {
		return scoring.Input{}, err
	}
	return input, nil
}

func checkNonNegative(in scoring.Input) error {
	if in.SafeValue < 0 {
		return fmt.Errorf("%w: safe_value must not be negative", scoring.ErrInvalidInput)
	}
	if in.RiskyValue < 0 {
		return fmt.Errorf("%w: risky_value must not be negative", scoring.ErrInvalidInput)
	}
	return nil
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseUintParam(value string) (uint, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("identifier is required")
	}
	parsed, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier: %w", err)
	}
	if parsed == 0 {
		return 0, errors.New("identifier must be greater than zero")
	}
	return uint(parsed), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
