// Package config provides configuration for the reorderable list.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← REORDERLIST_*
//	├─────────────────────────────┤
//	│  2. Config File (TOML)      │  ← -config path
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// Command line flags are applied on top by the caller.
//
// # File Format
//
//	[drag]
//	delay = "150ms"
//
//	[log]
//	level = "debug"
//	file = "/tmp/reorderlist.log"
//
//	[trace]
//	file = "/tmp/drag.jsonl"
//
//	[list]
//	items = ["Alpha", "Beta", "Gamma"]
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
//
// # Live Reload
//
// Watcher reloads the file when it changes and hands the new Config to
// its subscribers. Only settings read per event, like the drag delay,
// take effect without a restart.
package config
