package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/models"
)

func TestDashboardRepository_SaveAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Dashboards")
	repo := NewDashboardRepository(dir, zap.NewNop())
	ctx := context.Background()

	for _, d := range []*models.GridDashboard{
		{ID: "user_b", Title: "Orders", CreatedAt: time.Now().UTC()},
		{ID: "user_a", Title: "Customers", CreatedAt: time.Now().UTC()},
	} {
		fileName, err := repo.Save(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, d.ID+".rdash", fileName)
	}

	// Ignored: wrong extension, corrupt artifact
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_c.rdash"), []byte("{"), 0o644))

	names, err := repo.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.DashboardName{
		{DashboardFileName: "user_a", DashboardTitle: "Customers"},
		{DashboardFileName: "user_b", DashboardTitle: "Orders"},
	}, names)
}

func TestDashboardRepository_ListNames_MissingDirectory(t *testing.T) {
	repo := NewDashboardRepository(filepath.Join(t.TempDir(), "missing"), nil)

	names, err := repo.ListNames(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestDashboardRepository_Save_Overwrites(t *testing.T) {
	dir := t.TempDir()
	repo := NewDashboardRepository(dir, nil)
	ctx := context.Background()

	_, err := repo.Save(ctx, &models.GridDashboard{ID: "user_x", Title: "Old"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &models.GridDashboard{ID: "user_x", Title: "New"})
	require.NoError(t, err)

	names, err := repo.ListNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "New", names[0].DashboardTitle)
}
