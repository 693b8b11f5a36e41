package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/physics"
)

// referenceLight is the light intensity at which bodies at the front plane
// show their palette color unchanged.
const referenceLight = 200.0

// Shader turns a palette color into the terminal color for a body at depth z.
type Shader struct {
	ambient   colorful.Color
	ambientK  float64
	lightK    float64
	minBright float64
}

func NewShader(l config.LightingConfig) Shader {
	amb, err := colorful.Hex(l.AmbientColor)
	if err != nil {
		amb = colorful.Color{R: 1, G: 1, B: 1}
	}
	return Shader{
		ambient:   amb,
		ambientK:  clamp01(l.AmbientIntensity) * 0.15,
		lightK:    math.Max(0.25, math.Min(1.5, l.LightIntensity/referenceLight)),
		minBright: 0.35,
	}
}

func (s Shader) Shade(base colorful.Color, z float64, vol physics.Volume) colorful.Color {
	depth := 1.0
	if size := vol.Size()[2]; size > 0 {
		depth = clamp01((z - vol.Min[2]) / size)
	}
	bright := clamp01((s.minBright + (1-s.minBright)*depth) * s.lightK)

	lit := base.BlendRgb(s.ambient, s.ambientK)
	return colorful.Color{}.BlendLab(lit, bright).Clamped()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
