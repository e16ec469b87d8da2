// Package config loads runtime configuration for the fieldsync client.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Example JSON:
//
//	{
//	  "database_path": "/data/fieldsync.db",
//	  "server_endpoint_addr": "backend:50051",
//	  "online_check_interval": "3s",
//	  "settle_delay": "2s",
//	  "media_bucket": "site-media"
//	}
package config
