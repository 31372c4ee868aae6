package component

import "github.com/jakecoffman/cp"

// PhysicsBody moves an entity's Transform through Chipmunk2D. Body is created
// by PhysicsSystem on first sight; the remaining fields seed it.
type PhysicsBody struct {
	Body      *cp.Body
	Mass      float64
	Radius    float64
	VelocityX float64
	VelocityY float64

	// Kinematic bodies keep their velocity and ignore gravity.
	Kinematic bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
