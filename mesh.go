package sweep

import (
	"fmt"

	vec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/xtgo/uuid"
)

// Mesh is an indexed triangle mesh produced by a sweep generator or primitive
// constructor. It remembers the pose it was created at and the material it
// inherited; FaceGroups name subsets of triangles (by index into Faces) for
// attach-face targeting. Meshes are never mutated after creation: attach
// operations work on a copy and return the replacement.
type Mesh struct {
	ID           string
	Vertices     []vec3.T
	Faces        [][3]uint32
	CreationPose Pose
	Material     MeshMaterial
	FaceGroups   map[string][]int
}

// NewMesh returns an empty mesh stamped with a fresh identity.
func NewMesh(pose Pose, material MeshMaterial) *Mesh {
	return &Mesh{
		ID:           uuid.NewRandom().String(),
		CreationPose: pose,
		Material:     material,
	}
}

// Clone deep-copies the mesh, keeping its identity so a transformed copy can
// replace the original binding.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		ID:           m.ID,
		Vertices:     append([]vec3.T(nil), m.Vertices...),
		Faces:        append([][3]uint32(nil), m.Faces...),
		CreationPose: m.CreationPose,
		Material:     m.Material,
	}
	if m.FaceGroups != nil {
		out.FaceGroups = make(map[string][]int, len(m.FaceGroups))
		for k, v := range m.FaceGroups {
			out.FaceGroups[k] = append([]int(nil), v...)
		}
	}
	return out
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Empty reports whether the mesh carries no geometry.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0
}

// Validate checks the indexing invariant: every face index addresses an
// existing vertex, and every face group addresses an existing triangle.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d", i, idx, n)
			}
		}
	}
	for name, tris := range m.FaceGroups {
		for _, ti := range tris {
			if ti < 0 || ti >= len(m.Faces) {
				return fmt.Errorf("face group %q references triangle %d of %d", name, ti, len(m.Faces))
			}
		}
	}
	return nil
}

// BBox computes the axis-aligned bounding box of the mesh.
func (m *Mesh) BBox() vec3.Box {
	if len(m.Vertices) == 0 {
		return vec3.Box{}
	}
	box := vec3.MinBox
	for i := range m.Vertices {
		pt := vec3.Box{Min: m.Vertices[i], Max: m.Vertices[i]}
		box.Join(&pt)
	}
	return box
}

// Normals computes area-weighted per-vertex normals.
func (m *Mesh) Normals() []vec3.T {
	normals := make([]vec3.T, len(m.Vertices))
	for _, f := range m.Faces {
		p1 := m.Vertices[f[0]]
		p2 := m.Vertices[f[1]]
		p3 := m.Vertices[f[2]]

		e1 := vec3.Sub(&p2, &p1)
		e2 := vec3.Sub(&p3, &p1)
		cr := vec3.Cross(&e1, &e2)
		if cr.Length() == 0 {
			continue
		}
		normals[f[0]].Add(&cr)
		normals[f[1]].Add(&cr)
		normals[f[2]].Add(&cr)
	}
	for i := range normals {
		if normals[i].Length() > 0 {
			normals[i].Normalize()
		}
	}
	return normals
}

// Centroid returns the mean vertex position.
func (m *Mesh) Centroid() vec3.T {
	var sum vec3.T
	if len(m.Vertices) == 0 {
		return sum
	}
	for i := range m.Vertices {
		sum.Add(&m.Vertices[i])
	}
	sum.Scale(1 / float64(len(m.Vertices)))
	return sum
}

// Combine concatenates meshes into one: vertex buffers are appended in order
// and each subsequent mesh's face indices are shifted by the running vertex
// count. The first mesh's creation pose and material are preserved. No
// welding or deduplication happens, so the result may be topologically
// disconnected; only Bloft's union step guarantees manifoldness.
func Combine(meshes []*Mesh) *Mesh {
	var first *Mesh
	for _, m := range meshes {
		if m != nil {
			first = m
			break
		}
	}
	if first == nil {
		return &Mesh{ID: uuid.NewRandom().String()}
	}
	out := NewMesh(first.CreationPose, first.Material)
	for _, m := range meshes {
		if m == nil {
			continue
		}
		vtxOffset := uint32(len(out.Vertices))
		faceOffset := len(out.Faces)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, [3]uint32{f[0] + vtxOffset, f[1] + vtxOffset, f[2] + vtxOffset})
		}
		for name, tris := range m.FaceGroups {
			if out.FaceGroups == nil {
				out.FaceGroups = map[string][]int{}
			}
			key := name
			for i := 2; ; i++ {
				if _, taken := out.FaceGroups[key]; !taken {
					break
				}
				key = fmt.Sprintf("%s.%d", name, i)
			}
			shifted := make([]int, len(tris))
			for i, ti := range tris {
				shifted[i] = ti + faceOffset
			}
			out.FaceGroups[key] = shifted
		}
	}
	return out
}

// Unioner is the external mesh-boolean capability: given meshes, return their
// union as one manifold mesh. Bloft consumes it to merge segment pieces and
// hull bridges.
type Unioner interface {
	Union(meshes ...*Mesh) (*Mesh, error)
}

// CombineUnion is the built-in fallback Unioner. It concatenates instead of
// solving the boolean, so overlapping pieces stay overlapping; hosts with a
// manifold CSG library should install their own Unioner on the turtle.
type CombineUnion struct{}

// Union implements Unioner by concatenation.
func (CombineUnion) Union(meshes ...*Mesh) (*Mesh, error) {
	if len(meshes) > 1 {
		logger.Debug("union fallback combines without boolean merge; result may not be manifold")
	}
	return Combine(meshes), nil
}
