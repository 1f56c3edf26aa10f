package sweep

import (
	"testing"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, expected, got vec3.T, eps float64) {
	t.Helper()
	assert.InDelta(t, expected[0], got[0], eps)
	assert.InDelta(t, expected[1], got[1], eps)
	assert.InDelta(t, expected[2], got[2], eps)
}

func TestNewPoseFrame(t *testing.T) {
	p := NewPose()
	assert.Equal(t, vec3.UnitY, p.Heading)
	assert.Equal(t, vec3.UnitZ, p.Up)
	assertVecNear(t, vec3.UnitX, p.Right(), 1e-12)
}

func TestPoseRotations(t *testing.T) {
	tests := []struct {
		name    string
		rotate  func(Pose) Pose
		heading vec3.T
		up      vec3.T
	}{
		{"yaw left", func(p Pose) Pose { return p.Yaw(90) }, vec3.T{-1, 0, 0}, vec3.UnitZ},
		{"yaw right", func(p Pose) Pose { return p.Yaw(-90) }, vec3.UnitX, vec3.UnitZ},
		{"pitch up", func(p Pose) Pose { return p.Pitch(90) }, vec3.UnitZ, vec3.T{0, -1, 0}},
		{"roll banks up toward right", func(p Pose) Pose { return p.Roll(90) }, vec3.UnitY, vec3.UnitX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.rotate(NewPose())
			assertVecNear(t, tt.heading, p.Heading, 1e-12)
			assertVecNear(t, tt.up, p.Up, 1e-12)
		})
	}
}

func TestPoseRotationInverse(t *testing.T) {
	p := NewPose().Yaw(33).Pitch(21).Roll(14)
	q := p.Roll(-14).Pitch(-21).Yaw(-33)
	assertVecNear(t, vec3.UnitY, q.Heading, 1e-9)
	assertVecNear(t, vec3.UnitZ, q.Up, 1e-9)
}

func TestPoseStaysOrthonormal(t *testing.T) {
	p := NewPose()
	for i := 0; i < 500; i++ {
		p = p.Yaw(17.3).Pitch(-9.1).Roll(4.7)
	}
	assert.InDelta(t, 1, p.Heading.Length(), 1e-9)
	assert.InDelta(t, 1, p.Up.Length(), 1e-9)
	assert.InDelta(t, 0, vec3.Dot(&p.Heading, &p.Up), 1e-9)
}

func TestPlacePoint(t *testing.T) {
	p := NewPose()
	assertVecNear(t, vec3.T{2, 0, 3}, p.PlacePoint(2, 3), 1e-12)

	p = p.Forward(5)
	assertVecNear(t, vec3.T{2, 5, 3}, p.PlacePoint(2, 3), 1e-12)
}

func TestPoseShift(t *testing.T) {
	p := NewPose().Shift(1, 2)
	assertVecNear(t, vec3.T{1, 0, 2}, p.Position, 1e-12)
	assert.Equal(t, vec3.UnitY, p.Heading)
}
