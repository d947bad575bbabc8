package ecs

// UpdateFrame is what a system sees while it runs.
type UpdateFrame struct {
	// DeltaTime is the frame length in seconds; zero during startup.
	DeltaTime float64
	// Frame counts update frames from 1; zero during startup.
	Frame    uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, frame uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
