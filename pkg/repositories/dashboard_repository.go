package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

// DashboardRepository persists generated dashboard artifacts.
type DashboardRepository interface {
	// Save writes the artifact as <dashboard id>.rdash, replacing any previous
	// version. Returns the file name written.
	Save(ctx context.Context, d *models.GridDashboard) (string, error)

	// ListNames returns the file stem and title of every readable artifact,
	// ordered by file name.
	ListNames(ctx context.Context) ([]models.DashboardName, error)
}

type dashboardRepository struct {
	dir    string
	logger *zap.Logger
}

// NewDashboardRepository creates a DashboardRepository rooted at dir.
func NewDashboardRepository(dir string, logger *zap.Logger) DashboardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dashboardRepository{
		dir:    dir,
		logger: logger.Named("dashboard-repository"),
	}
}

var _ DashboardRepository = (*dashboardRepository)(nil)

func (r *dashboardRepository) Save(ctx context.Context, d *models.GridDashboard) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dashboard %s: %w", d.ID, err)
	}

	fileName := d.ID + models.DashboardFileExt
	if err := writeFileAtomic(r.dir, fileName, data, r.logger); err != nil {
		return "", fmt.Errorf("failed to save dashboard %s: %w", d.ID, err)
	}

	return fileName, nil
}

func (r *dashboardRepository) ListNames(ctx context.Context) ([]models.DashboardName, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.DashboardName{}, nil
		}
		return nil, fmt.Errorf("failed to read dashboards directory: %w", err)
	}

	names := make([]models.DashboardName, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != models.DashboardFileExt {
			continue
		}

		title, err := r.readTitle(e.Name())
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.Warn("Skipping unreadable dashboard",
					zap.String("file", e.Name()),
					zap.Error(err))
			}
			continue
		}

		names = append(names, models.DashboardName{
			DashboardFileName: strings.TrimSuffix(e.Name(), models.DashboardFileExt),
			DashboardTitle:    title,
		})
	}

	sort.Slice(names, func(i, j int) bool {
		return names[i].DashboardFileName < names[j].DashboardFileName
	})

	return names, nil
}

func (r *dashboardRepository) readTitle(fileName string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, fileName))
	if err != nil {
		return "", err
	}

	var header struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return "", fmt.Errorf("failed to parse dashboard %s: %w", fileName, err)
	}
	return header.Title, nil
}
