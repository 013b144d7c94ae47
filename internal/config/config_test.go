package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfigFile(t, `# comment
database:
  host: db.local
  port: 5433
  user: app
  password: secret
  database: pedidos

rabbitmq:
  host: mq.local
  port: 5673
  user: app
  password: secret

restaurant:
  name: Cantina da Praça
  phone: (21) 98888-7777
  menu_file: menu.csv
  delivery_buffer_minutes: 10
  session_idle_minutes: 15
  retention_days: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "db.local", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "pedidos", cfg.Database.Database)
	require.Equal(t, "mq.local", cfg.RabbitMQ.Host)
	require.Equal(t, "Cantina da Praça", cfg.Restaurant.Name)
	require.Equal(t, "(21) 98888-7777", cfg.Restaurant.Phone)
	require.Equal(t, "menu.csv", cfg.Restaurant.MenuFile)
	require.Equal(t, 10, cfg.Restaurant.DeliveryBufferMinutes)
	require.Equal(t, 15, cfg.Restaurant.SessionIdleMinutes)
	require.Equal(t, 7, cfg.Restaurant.RetentionDays)
}

func TestLoad_RestaurantDefaults(t *testing.T) {
	path := writeConfigFile(t, `database:
  host: localhost
  port: 5432
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "cardapio.csv", cfg.Restaurant.MenuFile)
	require.Equal(t, 5, cfg.Restaurant.DeliveryBufferMinutes)
	require.Equal(t, 30, cfg.Restaurant.SessionIdleMinutes)
	require.Equal(t, 30, cfg.Restaurant.RetentionDays)
}

func TestLoad_EnvPasswordOverride(t *testing.T) {
	path := writeConfigFile(t, `database:
  host: localhost
  port: 5432
  password: from-file

rabbitmq:
  host: localhost
  port: 5672
  password: from-file
`)

	t.Setenv("DATABASE_PASSWORD", "from-env-db")
	t.Setenv("RABBITMQ_PASSWORD", "from-env-mq")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "from-env-db", cfg.Database.Password)
	require.Equal(t, "from-env-mq", cfg.RabbitMQ.Password)
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, `database:
  host: localhost
  port: not-a-number
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_NegativeRetention(t *testing.T) {
	path := writeConfigFile(t, `restaurant:
  retention_days: -1
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "localhost", Port: 5432, User: "app", Password: "pw", Database: "pedidos",
	}}
	require.Equal(t, "postgres://app:pw@localhost:5432/pedidos?sslmode=disable", cfg.DatabaseURL())
}
