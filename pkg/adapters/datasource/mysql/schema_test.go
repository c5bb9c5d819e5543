package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/ekaya-querygrid/pkg/adapters/datasource"
)

func newMockDiscoverer(t *testing.T) (*SchemaDiscoverer, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	d := newSchemaDiscovererWithDB(db, "crm", zaptest.NewLogger(t))
	t.Cleanup(func() {
		mock.ExpectClose()
		require.NoError(t, d.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return d, mock
}

func TestFromDatasourceConfig(t *testing.T) {
	cfg, err := FromDatasourceConfig(&datasource.Config{Host: "db.example.com", User: "app", Password: "pw", Database: "crm"})
	require.NoError(t, err)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "false", cfg.TLS)

	cfg, err = FromDatasourceConfig(&datasource.Config{Host: "h", User: "u", Database: "d", SSLMode: "require"})
	require.NoError(t, err)
	assert.Equal(t, "skip-verify", cfg.TLS)

	_, err = FromDatasourceConfig(&datasource.Config{User: "u", Database: "d"})
	assert.EqualError(t, err, "host is required")
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Host: "db.example.com", Port: 3307, User: "app", Password: "pw", Database: "crm", TLS: "false"}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "app:pw@tcp(db.example.com:3307)/crm")
	assert.Contains(t, dsn, "parseTime=true")
	assert.NotContains(t, dsn, "tls=")
}

func TestSchemaDiscoverer_DiscoverColumns(t *testing.T) {
	d, mock := newMockDiscoverer(t)

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "is_pk", "ordinal_position", "character_maximum_length", "column_default"}).
		AddRow("id", "int", false, true, 1, nil, nil).
		AddRow("email", "varchar", true, false, 2, 255, nil).
		AddRow("created_at", "datetime", false, false, 3, nil, "CURRENT_TIMESTAMP")
	mock.ExpectQuery(`FROM information_schema.columns`).
		WithArgs("", "contacts").
		WillReturnRows(rows)

	columns, err := d.DiscoverColumns(context.Background(), "", "contacts")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.True(t, columns[0].IsPrimaryKey)
	assert.Nil(t, columns[0].MaxLength)
	require.NotNil(t, columns[1].MaxLength)
	assert.Equal(t, 255, *columns[1].MaxLength)
	require.NotNil(t, columns[2].DefaultValue)
	assert.Equal(t, "CURRENT_TIMESTAMP", *columns[2].DefaultValue)
}

func TestSchemaDiscoverer_TestConnection(t *testing.T) {
	d, mock := newMockDiscoverer(t)

	mock.ExpectQuery(`SELECT DATABASE\(\)`).WillReturnRows(sqlmock.NewRows([]string{"db"}).AddRow("other"))

	err := d.TestConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connected to wrong database")
}

func TestRegistration(t *testing.T) {
	assert.True(t, datasource.IsRegistered("mysql"))
}
