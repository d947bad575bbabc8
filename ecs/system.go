package ecs

// System is one unit of per-frame behavior. Implementations are usually
// structs whose Query and Singleton fields are wired by the Scheduler.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

// Execute calls f.
func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
