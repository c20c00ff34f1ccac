// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modelcache/internal/adapters/config"
	_ "go.trai.ch/modelcache/internal/adapters/disk"
	_ "go.trai.ch/modelcache/internal/adapters/fs"
	_ "go.trai.ch/modelcache/internal/adapters/logger"
	_ "go.trai.ch/modelcache/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/modelcache/internal/app"
)
