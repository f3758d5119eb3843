// Package config loads image-export settings from a TOML file.
//
// A file is optional. Every section falls back to Default():
//
//	[export]
//	prefix = "image"
//	overwrite = false
//	parallelism = 1
//	tiff_compression = "none"   # or "deflate"
//
//	[storage]
//	region = "us-east-1"
//	endpoint = "http://localhost:9000"
//	access_key_id = ""
//	secret_access_key = ""
//	session_token = ""
//	insecure = false
//
//	[logging]
//	level = "info"
//
// IMAGE_EXPORT_LOG_LEVEL, when set, replaces logging.level.
package config
