// Package config loads runtime configuration for the taskkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations accept "10s" style strings or integer nanoseconds; absent keys
// keep the default:
//
//	{
//	  "api_base_url": "https://tasks.example.com/api/v1/",
//	  "request_timeout": "10s",
//	  "persist_token": true,
//	  "storage_backend": "redis",
//	  "storage_dsn": "127.0.0.1:6379",
//	  "storage_origin": "laptop"
//	}
//
// Environment variables are not read.
package config
