package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ytcommentsync/internal/model"
)

type Config struct {
	DatabasePath string
	ChannelsFile string

	SnapshotsEnabled bool
	SnapshotDir      string

	TelegramEnabled  bool
	TelegramBotToken string
	TelegramChatID   string
	TelegramUserID   string
	TelegramThreadID int64

	UTCOffsetHours int

	SyncInterval time.Duration

	StatusAddr string

	AuthListenAddr string
	AuthTimeout    time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "comments.db"
	}

	channelsFile := os.Getenv("CHANNELS_FILE")
	if channelsFile == "" {
		channelsFile = "channels.yaml"
	}

	syncInterval, err := time.ParseDuration(os.Getenv("SYNC_INTERVAL"))
	if err != nil || syncInterval <= 0 {
		syncInterval = 30 * time.Minute
	}

	authTimeout, err := time.ParseDuration(os.Getenv("AUTH_TIMEOUT"))
	if err != nil || authTimeout <= 0 {
		authTimeout = 5 * time.Minute
	}

	authListenAddr := os.Getenv("AUTH_LISTEN_ADDR")
	if authListenAddr == "" {
		authListenAddr = "localhost:8090"
	}

	statusAddr := os.Getenv("STATUS_ADDR")
	if statusAddr == "" {
		statusAddr = ":8081"
	}

	threadID, err := strconv.ParseInt(os.Getenv("TELEGRAM_THREAD_ID"), 10, 64)
	if err != nil {
		threadID = 0
	}

	utcOffsetHours, err := strconv.Atoi(os.Getenv("UTC_OFFSET_HOURS"))
	if err != nil {
		utcOffsetHours = 0
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")

	return &Config{
		DatabasePath: databasePath,
		ChannelsFile: channelsFile,

		SnapshotsEnabled: os.Getenv("SNAPSHOTS_ENABLED") == "true",
		SnapshotDir:      os.Getenv("SNAPSHOT_DIR"),

		TelegramEnabled:  botToken != "",
		TelegramBotToken: botToken,
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramUserID:   os.Getenv("TELEGRAM_USER_ID"),
		TelegramThreadID: threadID,

		UTCOffsetHours: utcOffsetHours,

		SyncInterval: syncInterval,

		StatusAddr: statusAddr,

		AuthListenAddr: authListenAddr,
		AuthTimeout:    authTimeout,
	}, nil
}

// LoadChannels reads the monitored channel list from a YAML file.
func LoadChannels(path string) ([]model.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}

	var doc struct {
		Channels []model.Channel `yaml:"channels"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse channels file: %w", err)
	}

	if len(doc.Channels) == 0 {
		return nil, fmt.Errorf("channels file %s lists no channels", path)
	}

	for i, ch := range doc.Channels {
		if ch.TokenPath == "" {
			return nil, fmt.Errorf("channel %d: token_path is required", i)
		}
		if ch.ClientSecretPath == "" {
			return nil, fmt.Errorf("channel %d: client_secret_path is required", i)
		}
	}

	return doc.Channels, nil
}
