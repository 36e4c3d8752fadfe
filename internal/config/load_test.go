package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEnvFile writes a config file into a temp configs/ directory and
// chdirs into it so LoadConfig picks the file up.
func writeEnvFile(t *testing.T, name, content string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tempDir) })

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempConfigsSubDir, name), []byte(content), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWD) })
	require.NoError(t, os.Chdir(tempDir))
}

// requiredSecrets are the settings without defaults that every config
// file must provide.
const requiredSecrets = "AUTH_JWT_SECRET=test-jwt-secret\n" +
	"STRIPE_SECRET_KEY=sk_test_123\n" +
	"STRIPE_WEBHOOK_SECRET=whsec_test_456\n"

func TestLoadConfig_HappyPath(t *testing.T) {
	testAppName := "TestApp"
	testPort := 9090
	testLogLevel := "debug"
	testKafkaBrokers := "kafka1:9092,kafka2:9092"

	envContent := requiredSecrets + fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\n",
		testAppName, testPort, testLogLevel, testKafkaBrokers,
	)
	writeEnvFile(t, "test_happy.env", envContent)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testKafkaBrokers, cfg.Kafka.Brokers)
	assert.Equal(t, "test-jwt-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)

	// Defaults fill everything the file leaves out
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "activity_events", cfg.Kafka.ActivityTopic)
	assert.Equal(t, "activity_events_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, "activity-processor-group", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "skillforge", cfg.MongoDB.Database)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
	assert.Contains(t, cfg.Stripe.SuccessURL, "{CHECKOUT_SESSION_ID}")

	cfgWithName, err := LoadConfigWithName("configs/test_happy") // Viper will look for configs/test_happy.env
	require.NoError(t, err)
	require.NotNil(t, cfgWithName)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	// Test LoadConfigWithNameAndType
	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	require.NotNil(t, cfgWithNameAndType)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_MissingSecrets(t *testing.T) {
	if os.Getenv("AUTH_JWT_SECRET") != "" || os.Getenv("STRIPE_SECRET_KEY") != "" {
		t.Skip("secrets present in process environment")
	}

	writeEnvFile(t, "test_missing.env", "APP_NAME=TestApp\n")

	cfg, err := LoadConfig("test_missing")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET is required")
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY is required")
}
