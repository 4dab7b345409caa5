package models

import "github.com/gorilla/websocket"

// Viewer is a struct that represents one local UI connected to the bridge.
type Viewer struct {
	// ID is generated when the connection is upgraded.
	ID string
	// Conn is the websocket connection of the viewer.
	Conn *websocket.Conn
	// Send holds encoded events waiting for the write pump.
	Send chan []byte
}
