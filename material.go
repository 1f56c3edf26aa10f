package sweep

// MeshMaterial is the surface description a turtle carries and generated
// meshes inherit.
type MeshMaterial interface {
	GetColor() [3]byte
	GetEmissive() [3]byte
	GetRoughness() float32
}

// BaseMaterial is a flat-shaded color.
type BaseMaterial struct {
	Color        [3]byte `json:"color"`
	Transparency float32 `json:"transparency"`
}

func (m *BaseMaterial) GetColor() [3]byte {
	return m.Color
}

func (m *BaseMaterial) GetEmissive() [3]byte {
	return [3]byte{0, 0, 0}
}

func (m *BaseMaterial) GetRoughness() float32 {
	return 1
}

// PbrMaterial is a physically-based surface.
type PbrMaterial struct {
	BaseMaterial
	Emissive    [3]byte `json:"emissive"`
	Metallic    float32 `json:"metallic"`
	Roughness   float32 `json:"roughness"`
	Reflectance float32 `json:"reflectance"`
}

func (m *PbrMaterial) GetEmissive() [3]byte {
	return m.Emissive
}

func (m *PbrMaterial) GetRoughness() float32 {
	return m.Roughness
}

// LambertMaterial is a diffuse surface.
type LambertMaterial struct {
	BaseMaterial
	Ambient  [3]byte `json:"ambient"`
	Diffuse  [3]byte `json:"diffuse"`
	Emissive [3]byte `json:"emissive"`
}

func (m *LambertMaterial) GetEmissive() [3]byte {
	return m.Emissive
}

// PhongMaterial adds a specular term to a Lambert surface.
type PhongMaterial struct {
	LambertMaterial
	Specular  [3]byte `json:"specular"`
	Shininess float32 `json:"shininess"`
}
