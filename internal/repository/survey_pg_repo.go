package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"child-survey/internal/domain"
)

// surveyAppendLockKey identifica el advisory lock de escritura sobre survey_records.
const surveyAppendLockKey int64 = 0x63687376

const surveySchema = `
	CREATE TABLE IF NOT EXISTS survey_records (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		name_of_child TEXT NOT NULL,
		age DOUBLE PRECISION NOT NULL,
		school_class INTEGER NOT NULL,
		background TEXT NOT NULL,
		problems_at_home TEXT NOT NULL DEFAULT '',
		behavioral_impact TEXT NOT NULL,
		academic_performance DOUBLE PRECISION NOT NULL,
		family_income DOUBLE PRECISION NOT NULL,
		role_model TEXT NOT NULL,
		role_model_reason TEXT NOT NULL,
		behavioral_sentiment_score INTEGER NOT NULL
	);

	CREATE OR REPLACE FUNCTION survey_records_append_only() RETURNS trigger AS $$
	BEGIN
		RAISE EXCEPTION 'survey_records is append-only';
	END;
	$$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS survey_records_no_mutation ON survey_records;
	CREATE TRIGGER survey_records_no_mutation
		BEFORE UPDATE OR DELETE ON survey_records
		FOR EACH ROW EXECUTE FUNCTION survey_records_append_only();
`

// PgSurveyRepository guarda encuestas en la tabla survey_records.
type PgSurveyRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	grades domain.GradeRange
}

func NewPgSurveyRepository(pool *pgxpool.Pool, logger *zap.Logger, grades domain.GradeRange) *PgSurveyRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if grades == (domain.GradeRange{}) {
		grades = domain.DefaultGradeRange
	}
	return &PgSurveyRepository{pool: pool, logger: logger, grades: grades}
}

// EnsureSchema crea la tabla y el trigger que impide UPDATE/DELETE.
func (r *PgSurveyRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, surveySchema); err != nil {
		return domain.NewStorageError("migrate", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	return nil
}

func (r *PgSurveyRepository) Append(ctx context.Context, rec domain.SurveyRecord) (domain.SurveyRecord, error) {
	const query = `
		INSERT INTO survey_records (
			created_at, name_of_child, age, school_class, background, problems_at_home,
			behavioral_impact, academic_performance, family_income, role_model,
			role_model_reason, behavioral_sentiment_score
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// con el lock tomado los ids se confirman en el mismo orden en que se asignan
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, surveyAppendLockKey); err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: advisory lock: %v", domain.ErrStoreUnavailable, err))
	}

	rec.Timestamp = time.Now().UTC()
	err = tx.QueryRow(ctx, query,
		rec.Timestamp,
		rec.NameOfChild,
		rec.Age,
		rec.SchoolClass,
		rec.Background,
		rec.ProblemsAtHome,
		rec.BehavioralImpact,
		rec.AcademicPerformance,
		rec.FamilyIncome,
		rec.RoleModel,
		rec.RoleModelReason,
		rec.BehavioralSentimentScore,
	).Scan(&rec.ID, &rec.Timestamp)
	if err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.SurveyRecord{}, domain.NewStorageError("append", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}

// ScanAll lee la tabla completa por id dentro de una transaccion repeatable read.
func (r *PgSurveyRepository) ScanAll(ctx context.Context) (ScanResult, error) {
	const query = `
		SELECT id, created_at, name_of_child, age, school_class, background, problems_at_home,
			behavioral_impact, academic_performance, family_income, role_model,
			role_model_reason, behavioral_sentiment_score
		FROM survey_records
		ORDER BY id
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return ScanResult{}, domain.NewStorageError("scan", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return ScanResult{}, domain.NewStorageError("scan", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}
	defer rows.Close()

	res, err := collectSurveyRows(rows, r.grades)
	if err != nil {
		return ScanResult{}, domain.NewStorageError("scan", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err))
	}

	for _, p := range res.Problems {
		r.logger.Warn("skipped invalid survey row", zap.Int("row", p.Row), zap.String("reason", p.Reason))
	}
	return res, nil
}

// surveyRows es el subconjunto de pgx.Rows que usa collectSurveyRows.
type surveyRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectSurveyRows arma el resultado de un escaneo. Todas las columnas son NOT NULL, asi
// que un error de Scan corta el escaneo; las filas que no pasan Validate se saltan.
func collectSurveyRows(rows surveyRows, grades domain.GradeRange) (ScanResult, error) {
	var res ScanResult
	for row := 1; rows.Next(); row++ {
		var rec domain.SurveyRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&rec.NameOfChild,
			&rec.Age,
			&rec.SchoolClass,
			&rec.Background,
			&rec.ProblemsAtHome,
			&rec.BehavioralImpact,
			&rec.AcademicPerformance,
			&rec.FamilyIncome,
			&rec.RoleModel,
			&rec.RoleModelReason,
			&rec.BehavioralSentimentScore,
		); err != nil {
			return ScanResult{}, fmt.Errorf("row %d: %w", row, err)
		}
		if err := rec.Validate(grades); err != nil {
			res.skip(row, fmt.Sprintf("id %d: %v", rec.ID, err))
			continue
		}
		rec.Timestamp = rec.Timestamp.UTC()
		res.Records = append(res.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return ScanResult{}, err
	}
	return res, nil
}
