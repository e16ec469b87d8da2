package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
	"github.com/dmitrijs2005/fieldsync/internal/timex"
)

// JsonConfig is the on-disk shape. Durations use timex.Duration so they may
// be written as "3s" or as integer nanoseconds. Absent fields keep the value
// from the previous stage.
type JsonConfig struct {
	DatabasePath        string          `json:"database_path"`
	ServerEndpointAddr  string          `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SettleDelay         *timex.Duration `json:"settle_delay"`
	S3BaseEndpoint      string          `json:"s3_base_endpoint"`
	S3Region            string          `json:"s3_region"`
	S3AccessKey         string          `json:"s3_access_key"`
	S3SecretKey         string          `json:"s3_secret_key"`
	S3MaxAttempts       *int            `json:"s3_max_attempts"`
	MediaBucket         string          `json:"media_bucket"`
	VoiceBucket         string          `json:"voice_bucket"`
	RecordsDSN          string          `json:"records_dsn"`
	ProgressAddr        string          `json:"progress_addr"`
	LogFile             string          `json:"log_file"`
	LogLevel            string          `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SettleDelay != nil {
		cfg.SettleDelay = jc.SettleDelay.Duration
	}
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.S3MaxAttempts != nil {
		cfg.S3MaxAttempts = *jc.S3MaxAttempts
	}
	setString(&cfg.MediaBucket, jc.MediaBucket)
	setString(&cfg.VoiceBucket, jc.VoiceBucket)
	setString(&cfg.RecordsDSN, jc.RecordsDSN)
	setString(&cfg.ProgressAddr, jc.ProgressAddr)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}
