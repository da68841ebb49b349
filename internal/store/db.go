package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Evaluation{}, &Batch{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveEvaluation inserts an evaluation, assigning a public id when missing.
func (d *Database) SaveEvaluation(e *Evaluation) error {
	if e == nil {
		return errors.New("evaluation is nil")
	}
	if e.PublicID == "" {
		e.PublicID = uuid.NewString()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(e).Error
}

// CreateBatchWithEvaluations inserts a batch, with its final statistics,
// and all of its rows in one transaction. Nothing is stored when any insert
// fails.
func (d *Database) CreateBatchWithEvaluations(batch *Batch, rows []Evaluation) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	if batch.JobID == "" {
		batch.JobID = uuid.NewString()
	}
	for i := range rows {
		if rows[i].PublicID == "" {
			rows[i].PublicID = uuid.NewString()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		for i := range rows {
			id := batch.ID
			rows[i].BatchID = &id
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 250).Error; err != nil {
			return fmt.Errorf("create batch rows: %w", err)
		}
		return nil
	})
	if err != nil {
		batch.ID = 0
		for i := range rows {
			rows[i].BatchID = nil
		}
	}
	return err
}

// GetEvaluation fetches an evaluation by its public id.
func (d *Database) GetEvaluation(publicID string) (*Evaluation, error) {
	var e Evaluation
	if err := d.gorm.Where("public_id = ?", strings.TrimSpace(publicID)).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvaluation removes an evaluation by its public id.
func (d *Database) DeleteEvaluation(publicID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := d.gorm.Where("public_id = ?", strings.TrimSpace(publicID)).Delete(&Evaluation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EvaluationQuery encapsulates filters and pagination for listing evaluation rows.
type EvaluationQuery struct {
	Scenario       string
	Model          string
	Recommendation string
	Quadrant       int
	BatchID        uint
	Sort           string
	Offset         int
	Limit          int
}

// ListEvaluations returns paginated evaluation records applying optional filters.
func (d *Database) ListEvaluations(opts EvaluationQuery) ([]Evaluation, int64, error) {
	var total int64
	base := d.gorm.Model(&Evaluation{})
	if opts.BatchID > 0 {
		base = base.Where("batch_id = ?", opts.BatchID)
	}
	if scenario := strings.TrimSpace(opts.Scenario); scenario != "" {
		base = base.Where("scenario = ?", strings.ToLower(scenario))
	}
	if model := strings.TrimSpace(opts.Model); model != "" {
		base = base.Where("comparison_model = ?", strings.ToLower(model))
	}
	if rec := strings.TrimSpace(opts.Recommendation); rec != "" {
		base = base.Where("recommendation = ?", strings.ToUpper(rec))
	}
	if opts.Quadrant > 0 {
		base = base.Where("quadrant = ?", opts.Quadrant)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	queryBuilder := base.Order(orderForSort(opts.Sort)).Offset(opts.Offset)
	if opts.Limit > 0 {
		queryBuilder = queryBuilder.Limit(opts.Limit)
	}

	var rows []Evaluation
	if err := queryBuilder.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func orderForSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "created_asc":
		return "evaluations.created_at ASC, evaluations.id ASC"
	case "created_desc":
		return "evaluations.created_at DESC, evaluations.id DESC"
	case "probability_asc":
		return "evaluations.risk_probability ASC, evaluations.id DESC"
	case "probability_desc":
		return "evaluations.risk_probability DESC, evaluations.id DESC"
	case "spread_desc":
		return "ABS(evaluations.safe_expected_value - evaluations.risky_expected_value) DESC, evaluations.id DESC"
	case "row_asc":
		return "evaluations.row_index ASC, evaluations.id ASC"
	default:
		return "evaluations.id DESC"
	}
}

// QuadrantSummary counts evaluations per quadrant, optionally for one batch.
func (d *Database) QuadrantSummary(batchID uint) ([]QuadrantCount, error) {
	query := d.gorm.Model(&Evaluation{}).Select("quadrant, COUNT(*) AS total").Group("quadrant").Order("quadrant ASC")
	if batchID > 0 {
		query = query.Where("batch_id = ?", batchID)
	}
	var rows []QuadrantCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RecommendationSummary counts evaluations per recommendation, optionally for one batch.
func (d *Database) RecommendationSummary(batchID uint) ([]RecommendationCount, error) {
	query := d.gorm.Model(&Evaluation{}).Select("recommendation, COUNT(*) AS total").Group("recommendation").Order("recommendation ASC")
	if batchID > 0 {
		query = query.Where("batch_id = ?", batchID)
	}
	var rows []RecommendationCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_evaluations_batch_row ON evaluations(batch_id, row_index)",
		"CREATE INDEX IF NOT EXISTS idx_evaluations_scenario_quadrant ON evaluations(scenario, quadrant)",
		"CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListBatches returns batches ordered by creation time.
func (d *Database) ListBatches(offset, limit int) ([]Batch, int64, error) {
	var total int64
	if err := d.gorm.Model(&Batch{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query := d.gorm.Model(&Batch{}).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	var batches []Batch
	if err := query.Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// GetBatch retrieves a batch by ID.
func (d *Database) GetBatch(batchID uint) (*Batch, error) {
	var batch Batch
	if err := d.gorm.First(&batch, batchID).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}
