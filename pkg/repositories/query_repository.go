package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

// Query record file extensions.
const (
	structuredExt = ".json"
	legacyExt     = ".txt"
)

// Values synthesized for records read from legacy plain-text files.
const (
	legacyNamePrefix  = "Legacy Query - "
	legacyDescription = "Migrated from legacy format"
	legacyTableName   = "Unknown"
)

// listConcurrency bounds the number of record files parsed at once.
const listConcurrency = 8

// QueryRepository persists query definitions as one file per record.
type QueryRepository interface {
	// Save writes the record as <id>.json, replacing any previous version.
	// Returns the file name written.
	Save(ctx context.Context, q *models.QueryDefinition) (string, error)

	// GetByID returns the structured record, or one synthesized from a legacy
	// <id>.txt file. Returns apperrors.ErrNotFound if neither exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.QueryDefinition, error)

	// List returns summaries of every readable record, newest first.
	List(ctx context.Context) ([]models.QuerySummary, error)

	// Delete removes the structured record and its dashboard artifact.
	// Returns apperrors.ErrNotFound if neither file existed.
	Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error)
}

type queryRepository struct {
	queriesDir    string
	dashboardsDir string
	logger        *zap.Logger
}

// NewQueryRepository creates a QueryRepository rooted at queriesDir. Dashboard
// artifacts in dashboardsDir are removed along with their query.
func NewQueryRepository(queriesDir, dashboardsDir string, logger *zap.Logger) QueryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &queryRepository{
		queriesDir:    queriesDir,
		dashboardsDir: dashboardsDir,
		logger:        logger.Named("query-repository"),
	}
}

var _ QueryRepository = (*queryRepository)(nil)

type recordKind int

const (
	recordStructured recordKind = iota + 1
	recordLegacy
)

// storedRecord is a query record as found on disk.
type storedRecord struct {
	kind     recordKind
	fileName string
	query    *models.QueryDefinition
}

func (r *queryRepository) Save(ctx context.Context, q *models.QueryDefinition) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal query %s: %w", q.ID, err)
	}

	fileName := q.ID.String() + structuredExt
	if err := writeFileAtomic(r.queriesDir, fileName, data, r.logger); err != nil {
		return "", fmt.Errorf("failed to save query %s: %w", q.ID, err)
	}

	r.logger.Debug("Saved query record",
		zap.String("query_id", q.ID.String()),
		zap.String("file", fileName))

	return fileName, nil
}

func (r *queryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QueryDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := r.readRecord(id)
	if err != nil {
		return nil, err
	}
	if rec.kind == recordLegacy {
		r.logger.Debug("Synthesized query from legacy record",
			zap.String("query_id", id.String()),
			zap.String("file", rec.fileName))
	}
	return rec.query, nil
}

// readRecord looks for <id>.json first, then <id>.txt.
func (r *queryRepository) readRecord(id uuid.UUID) (*storedRecord, error) {
	rec, err := r.loadFile(id.String() + structuredExt)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	rec, err = r.loadFile(id.String() + legacyExt)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrNotFound
	}
	return nil, err
}

// loadFile parses one record file. A missing file yields an error matching fs.ErrNotExist.
func (r *queryRepository) loadFile(fileName string) (*storedRecord, error) {
	path := filepath.Join(r.queriesDir, fileName)

	switch filepath.Ext(fileName) {
	case structuredExt:
		id, err := uuid.Parse(strings.TrimSuffix(fileName, structuredExt))
		if err != nil {
			return nil, fmt.Errorf("query record %s is not named by a query id: %w", fileName, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var q models.QueryDefinition
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("failed to parse query record %s: %w", fileName, err)
		}
		if q.ID != id {
			return nil, fmt.Errorf("query record %s holds id %s", fileName, q.ID)
		}
		if q.Version == 0 {
			q.Version = models.QueryRecordVersion
		}
		return &storedRecord{kind: recordStructured, fileName: fileName, query: &q}, nil

	case legacyExt:
		stem := strings.TrimSuffix(fileName, legacyExt)
		id, err := uuid.Parse(stem)
		if err != nil {
			return nil, fmt.Errorf("legacy record %s is not named by a query id: %w", fileName, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return &storedRecord{kind: recordLegacy, fileName: fileName, query: legacyQuery(id, string(data), info)}, nil

	default:
		return nil, fmt.Errorf("unrecognized record file %s", fileName)
	}
}

// legacyQuery synthesizes a definition from the raw SQL of a plain-text record.
func legacyQuery(id uuid.UUID, sql string, info fs.FileInfo) *models.QueryDefinition {
	modTime := info.ModTime().UTC()
	return &models.QueryDefinition{
		ID:           id,
		FriendlyName: legacyNamePrefix + id.String(),
		Description:  legacyDescription,
		TableName:    legacyTableName,
		Fields:       []string{},
		Columns:      []models.ColumnMetadata{},
		Query:        sql,
		DateAdded:    modTime,
		DateUpdated:  modTime,
	}
}

func (r *queryRepository) List(ctx context.Context) ([]models.QuerySummary, error) {
	entries, err := os.ReadDir(r.queriesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.QuerySummary{}, nil
		}
		return nil, fmt.Errorf("failed to read queries directory: %w", err)
	}

	// A structured record supersedes a legacy file with the same id.
	structured := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case structuredExt:
			structured[strings.TrimSuffix(e.Name(), structuredExt)] = true
			names = append(names, e.Name())
		case legacyExt:
			names = append(names, e.Name())
		}
	}
	names = slices.DeleteFunc(names, func(name string) bool {
		return filepath.Ext(name) == legacyExt && structured[strings.TrimSuffix(name, legacyExt)]
	})

	results := make([]*storedRecord, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := r.loadFile(name)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					r.logger.Warn("Skipping unreadable query record",
						zap.String("file", name),
						zap.Error(err))
				}
				return nil
			}
			results[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]models.QuerySummary, 0, len(results))
	for _, rec := range results {
		if rec == nil {
			continue
		}
		summaries = append(summaries, rec.query.Summary(rec.fileName, rec.kind == recordLegacy))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.DateAdded.Equal(b.DateAdded) {
			return a.DateAdded.After(b.DateAdded)
		}
		return a.FileName < b.FileName
	})

	return summaries, nil
}

func (r *queryRepository) Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queryFile := id.String() + structuredExt
	dashboardFile := models.DashboardFileName(id)

	queryRemoved, err := removeIfExists(filepath.Join(r.queriesDir, queryFile))
	if err != nil {
		return nil, fmt.Errorf("failed to delete query %s: %w", id, err)
	}

	dashboardRemoved, err := removeIfExists(filepath.Join(r.dashboardsDir, dashboardFile))
	if err != nil {
		if !queryRemoved {
			return nil, fmt.Errorf("failed to delete dashboard for query %s: %w", id, err)
		}
		// The record is already gone; report the artifact as kept.
		r.logger.Error("Failed to delete dashboard artifact",
			zap.String("query_id", id.String()),
			zap.String("file", dashboardFile),
			zap.Error(err))
	}

	result := &models.DeleteResult{
		Targets: []models.DeleteTargetStatus{
			{Target: models.DeleteTargetQuery, FileName: queryFile, Removed: queryRemoved},
			{Target: models.DeleteTargetDashboard, FileName: dashboardFile, Removed: dashboardRemoved},
		},
	}
	if !result.AnyRemoved() {
		return nil, apperrors.ErrNotFound
	}

	r.logger.Info("Deleted query",
		zap.String("query_id", id.String()),
		zap.Bool("record_removed", queryRemoved),
		zap.Bool("dashboard_removed", dashboardRemoved))

	return result, nil
}
