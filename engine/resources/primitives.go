package resources

// NewPlaneGeometry builds a width x height quad in the XY plane facing +Z.
func NewPlaneGeometry(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	g := NewGeometry()
	g.SetAttribute(AttributePosition, NewFloatAttribute([]float32{
		-hw, hh, 0, hw, hh, 0, -hw, -hh, 0, hw, -hh, 0,
	}, 3))
	g.SetAttribute(AttributeNormal, NewFloatAttribute([]float32{
		0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1,
	}, 3))
	g.SetAttribute(AttributeUV, NewFloatAttribute([]float32{
		0, 1, 1, 1, 0, 0, 1, 0,
	}, 2))
	g.SetIndex(NewUint16Attribute([]uint16{0, 2, 1, 2, 3, 1}, 1))
	return g
}

// NewBoxGeometry builds an axis aligned box centered on the origin with one
// group per face, in the order +x -x +y -y +z -z.
func NewBoxGeometry(width, height, depth float32) *Geometry {
	g := NewGeometry()
	var positions, normals, uvs []float32
	var indices []uint16

	face := func(u, v, w int, udir, vdir float32, fw, fh, fd float32, materialIndex int) {
		base := uint16(len(positions) / 3)
		start := len(indices)
		for iy := 0; iy < 2; iy++ {
			for ix := 0; ix < 2; ix++ {
				var p [3]float32
				p[u] = (float32(ix) - 0.5) * fw * udir
				p[v] = (float32(iy) - 0.5) * fh * vdir
				p[w] = fd / 2
				positions = append(positions, p[0], p[1], p[2])

				var n [3]float32
				if fd > 0 {
					n[w] = 1
				} else {
					n[w] = -1
				}
				normals = append(normals, n[0], n[1], n[2])
				uvs = append(uvs, float32(ix), 1-float32(iy))
			}
		}
		indices = append(indices, base, base+2, base+1, base+2, base+3, base+1)
		g.AddGroup(start, 6, materialIndex)
	}

	face(2, 1, 0, -1, -1, depth, height, width, 0)
	face(2, 1, 0, 1, -1, depth, height, -width, 1)
	face(0, 2, 1, 1, 1, width, depth, height, 2)
	face(0, 2, 1, 1, -1, width, depth, -height, 3)
	face(0, 1, 2, 1, -1, width, height, depth, 4)
	face(0, 1, 2, -1, -1, width, height, -depth, 5)

	g.SetAttribute(AttributePosition, NewFloatAttribute(positions, 3))
	g.SetAttribute(AttributeNormal, NewFloatAttribute(normals, 3))
	g.SetAttribute(AttributeUV, NewFloatAttribute(uvs, 2))
	g.SetIndex(NewUint16Attribute(indices, 1))
	return g
}
