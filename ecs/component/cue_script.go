package component

// CueScript attaches a tengo script that may issue sound requests every tick.
// Path is relative to prefabs/scripts.
type CueScript struct {
	Path string
	Name string
}

var CueScriptComponent = NewComponent[CueScript]()
