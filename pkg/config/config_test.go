package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("botToken", "test-token")
	os.Setenv("prefix", "!")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("prefix")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Prefix != "!" {
		t.Errorf("Prefix = %v, want %v", config.Prefix, "!")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}
	if got := config.MQTTClientID(); got != "baritone" {
		t.Errorf("MQTTClientID() = %v, want %v", got, "baritone")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}
	if got := config.MQTTClientID(); got != "baritone_canary" {
		t.Errorf("MQTTClientID() = %v, want %v", got, "baritone_canary")
	}

	os.Unsetenv("enviroment")
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{
		"botToken", "prefix", "mongodbUrl", "dbName", "moderationCollection",
		"mutedRoleName", "MQTT_Host", "MQTT_Port", "PORT", "enviroment",
	} {
		os.Unsetenv(key)
	}

	resetForTesting()
	config, _ := Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Prefix", config.Prefix, "?"},
		{"MongoDBURL", config.MongoDBURL, "mongodb://localhost:27017"},
		{"DBName", config.DBName, "Baritone"},
		{"ModerationCollection", config.ModerationCollection, "moderation"},
		{"MutedRoleName", config.MutedRoleName, "Muted"},
		{"MQTTHost", config.MQTTHost, "localhost"},
		{"MQTTPort", config.MQTTPort, "1883"},
		{"Port", config.Port, "3000"},
		{"Environment", config.Environment, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s default = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}
