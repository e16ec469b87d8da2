package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
)

var knownFlags = []string{
	"-d", "-a", "-i", "-settle",
	"-s3-endpoint", "-s3-region", "-s3-access-key", "-s3-secret-key", "-s3-max-attempts",
	"-media-bucket", "-voice-bucket", "-records-dsn",
	"-progress-addr", "-log-file", "-log-level",
}

// parseFlags overlays cfg with command-line flags. Durations take Go syntax
// ("3s", "500ms").
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("fieldsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local queue database")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "backend gRPC address for reachability probes")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "reachability probe interval")
	fs.DurationVar(&cfg.SettleDelay, "settle", cfg.SettleDelay, "delay after reconnect before syncing")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3-compatible endpoint URL")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.IntVar(&cfg.S3MaxAttempts, "s3-max-attempts", cfg.S3MaxAttempts, "S3 retry budget per upload (0 keeps the SDK default)")
	fs.StringVar(&cfg.MediaBucket, "media-bucket", cfg.MediaBucket, "bucket for photos and videos")
	fs.StringVar(&cfg.VoiceBucket, "voice-bucket", cfg.VoiceBucket, "bucket for voice notes")
	fs.StringVar(&cfg.RecordsDSN, "records-dsn", cfg.RecordsDSN, "Postgres DSN for records")
	fs.StringVar(&cfg.ProgressAddr, "progress-addr", cfg.ProgressAddr, "listen address of the websocket progress feed")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "rotating log file (default stderr)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
