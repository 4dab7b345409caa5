package rest

import (
	"go.uber.org/zap"
)

type Config struct {
	// Port is the port where the server will listen
	Port int

	// CanvasStorageType selects where drawn primitives are kept
	CanvasStorageType string

	// CanvasLimit caps the primitives kept per room, zero keeps all
	CanvasLimit int

	// ChatCacheType selects where recent chat lines are kept
	ChatCacheType string

	// ChatHistorySize is the number of chat lines kept per room
	ChatHistorySize int

	Logger *zap.Logger
}
