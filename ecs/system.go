package ecs

// System is one step of a tick. Query and Singleton fields of a system
// struct are bound by the Scheduler; any other fields are the system's own
// state and persist between ticks.
type System interface {
	Execute(frame *UpdateFrame)
}

// AccessDeclarer is implemented by systems that touch components outside
// their Query fields (through a View or Storage directly). The declared
// accesses are added to those of the queries.
type AccessDeclarer interface {
	Access() []Access
}

type storageBinder interface {
	Init(storage *Storage)
}

type executor interface {
	Execute()
}
