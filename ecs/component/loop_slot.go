package component

// LoopSlot backs one application-chosen loop key with two looping channels.
// Active is the member most recently given new content; Fading holds the
// previous content on its way to silence. Both are channel entities.
type LoopSlot struct {
	Key    uint32
	Active uint64
	Fading uint64
}

var LoopSlotComponent = NewComponent[LoopSlot]()
