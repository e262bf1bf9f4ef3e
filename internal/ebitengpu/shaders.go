package ebitengpu

import "github.com/lukaszgryglicki/hyper4d/internal/hyper4d"

// Kage has no vertex stage: the 4D projection runs on the CPU
// (hyper4d.LayerMesh.Triangles) and only the fragment stages live here.

// exclusionKage blends the interpolated layer color against the previous
// pass, sampled at the same pixel.
const exclusionKage = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	bg := imageSrc0At(srcPos).rgb
	src := clamp(color.rgb, vec3(0), vec3(1))
	x := src + bg - 2*src*bg
	return vec4(mix(bg, x, clamp(color.a, 0, 1)), 1)
}
`

const passthroughKage = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return imageSrc0At(srcPos)
}
`

// Sources returns the program sources understood by Device.
func Sources() hyper4d.ProgramSources {
	return hyper4d.ProgramSources{
		LayerVertex:   hyper4d.VertexProject4D,
		LayerFragment: exclusionKage,
		BlitVertex:    hyper4d.VertexFullscreen,
		BlitFragment:  passthroughKage,
	}
}
