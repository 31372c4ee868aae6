package component

import "github.com/milk9111/soundpool/common"

type Transform struct {
	X float64
	Y float64
	Z float64
}

func (t *Transform) Position() common.Vec3 {
	if t == nil {
		return common.Vec3{}
	}
	return common.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

var TransformComponent = NewComponent[Transform]()
