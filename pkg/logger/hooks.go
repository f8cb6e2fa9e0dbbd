package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

func errorLevels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

// fileHook copies entries of the given levels into a dedicated writer
type fileHook struct {
	writer    io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
	mu        sync.Mutex
}

func newFileHook(w io.Writer, levels []logrus.Level) *fileHook {
	return &fileHook{
		writer: w,
		levels: levels,
		formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   true,
		},
	}
}

func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.writer.Write(line)
	return err
}

// webhookHook forwards entries to a Discord webhook as embeds
type webhookHook struct {
	url    string
	levels []logrus.Level
}

func newWebhookHook(url string, levels []logrus.Level) *webhookHook {
	return &webhookHook{url: url, levels: levels}
}

func (h *webhookHook) Levels() []logrus.Level {
	return h.levels
}

func (h *webhookHook) Fire(entry *logrus.Entry) error {
	levelName, _ := entry.Data[fieldLevel].(string)
	prefix, _ := entry.Data[fieldPrefix].(string)
	level := levelFromString(levelName)

	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", entry.Message),
		"color":       level.DiscordColor(),
		"timestamp":   entry.Time.Format(time.RFC3339),
		"footer": map[string]string{
			"text": "💫 Baritone Go",
		},
	}

	// Hooks run while the logger lock is held; never block on the network here.
	go func() {
		_ = PostEmbed(h.url, embed)
	}()
	return nil
}

func levelFromString(name string) LogLevel {
	for l := LevelCritical; l <= LevelSystem; l++ {
		if l.String() == name {
			return l
		}
	}
	return LevelInfo
}

// PostEmbed sends a single embed to a Discord webhook URL
func PostEmbed(webhookURL string, embed map[string]interface{}) error {
	if webhookURL == "" {
		return nil
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
