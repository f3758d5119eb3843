// Command image-export writes image collections to PNG, TIFF or a raw binary
// layout, and serves the same operations as MCP tools.
//
//	image-export                      serve MCP on stdin/stdout
//	image-export png  DEST SRC...     one PNG per source image
//	image-export tiff DEST SRC...     one TIFF per source image
//	image-export binary DEST SRC...   raw .bin files, conf.json, SUCCESS
//	image-export config DEST --dims 4,4 --dtype int16
//	image-export inspect SRC          describe a binary export
//	image-export version
//
// Every command accepts -c/--config pointing at a TOML file; see package
// internal/config for the keys.
package main
