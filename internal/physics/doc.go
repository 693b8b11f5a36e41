// Package physics implements the ball-pit dynamics.
//
// Bodies live in a contiguous [Bodies] arena; a body's identity is its index.
// Each simulation step runs three passes in a fixed order:
//
//   - [Integrator]: gravity, cursor steering, friction decay, then position
//   - [Volume.Resolve]: wall containment with the bounce coefficient
//   - [Collider]: pairwise overlap resolution in increasing index order
//
// All passes mutate the arena in place and are deterministic for a given
// input, which is what makes whole runs reproducible from a seed.
//
// # Example
//
//	bodies := physics.Spawn(rng, physics.SpawnParams{Count: 50, MinSize: 0.5, MaxSize: 1, Palette: pal}, vol)
//	integ := physics.Integrator{Gravity: 9.8, Friction: 0.99}
//	col := physics.Collider{Restitution: 0.9, Iterations: 2}
//	integ.Step(bodies, physics.NoTarget, dt)
//	vol.Resolve(bodies, 0.9)
//	col.Resolve(bodies, vol)
package physics
