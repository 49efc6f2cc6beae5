package service

// Broadcaster pushes live events to connected clients. *ws.Hub
// implements it; tests inject a capture fake.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// nopBroadcaster is used when no hub is wired (CLI tools, tests).
type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastJSON(v interface{}) {}
