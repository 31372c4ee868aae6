package component

// ListenerTag marks the entity whose Transform is the audio listener.
type ListenerTag struct{}

var ListenerTagComponent = NewComponent[ListenerTag]()

// OriginTag marks entities that sounds are allowed to follow. It is only used
// by tools to list candidate origins.
type OriginTag struct {
	Name string
}

var OriginTagComponent = NewComponent[OriginTag]()
