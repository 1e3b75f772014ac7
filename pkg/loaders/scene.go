package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

var (
	// ErrUnknownMaterial is returned when a primitive names a material that was not declared
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrInvalidDescription is returned for scene files with out-of-range values
	ErrInvalidDescription = errors.New("invalid scene description")
)

// Default tracer settings for scene files that omit them
const (
	DefaultRecursionDepth = 2
	DefaultBeamRaysCount  = 2
)

// Vec3Value is a point or direction written as [x, y, z]
type Vec3Value [3]float32

// Vec3 converts the value to a vector
func (v Vec3Value) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// Description is a scene file as written on disk
type Description struct {
	Meta      *MetaDescription               `json:"meta,omitempty"`
	Image     *ImageDescription              `json:"image,omitempty"`
	Camera    *CameraDescription             `json:"camera,omitempty"`
	Tracer    TracerDescription              `json:"tracer"`
	Materials map[string]MaterialDescription `json:"materials"`
	Triangles []TriangleDescription          `json:"triangles"`
	Meshes    []MeshDescription              `json:"meshes"`
}

// MetaDescription names a scene for listings
type MetaDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// ImageDescription holds the recommended output settings
type ImageDescription struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Samples int `json:"samples"`
}

// CameraDescription positions the camera. Omitted fields keep their defaults.
type CameraDescription struct {
	Eye    *Vec3Value `json:"eye,omitempty"`
	Target *Vec3Value `json:"target,omitempty"`
	Up     *Vec3Value `json:"up,omitempty"`
	FovY   *float32   `json:"fovy,omitempty"`
	ZNear  *float32   `json:"znear,omitempty"`
	ZFar   *float32   `json:"zfar,omitempty"`
}

// TracerDescription holds the light transport settings
type TracerDescription struct {
	RecursionDepth  *int                 `json:"recursion_depth,omitempty"`
	BeamRaysCount   *int                 `json:"beam_rays_count,omitempty"`
	DefaultMaterial *MaterialDescription `json:"default_material,omitempty"`
}

// MaterialDescription is a material; missing colours are black
type MaterialDescription struct {
	Emission *material.ColourValue `json:"emission,omitempty"`
	Diffuse  *material.ColourValue `json:"diffuse,omitempty"`
}

// TransformDescription is a similarity transform: scale, then rotate, then translate
type TransformDescription struct {
	Translate Vec3Value `json:"translate"`
	Rotate    Vec3Value `json:"rotate"` // Axis-angle, radians
	Scale     *float32  `json:"scale,omitempty"`
}

// TriangleDescription is a single triangle with a named material
type TriangleDescription struct {
	Vertices  [3]Vec3Value          `json:"vertices"`
	Material  string                `json:"material"`
	Transform *TransformDescription `json:"transform,omitempty"`
}

// MeshDescription references a mesh file relative to the scene file
type MeshDescription struct {
	Path      string                `json:"path"`
	Material  string                `json:"material"`
	Fit       bool                  `json:"fit"`      // Normalise into the bi-unit cube
	Simplify  float64               `json:"simplify"` // Fraction of faces to keep, 0 keeps all
	Transform *TransformDescription `json:"transform,omitempty"`
}

// Decode reads a scene description from JSON
func Decode(r io.Reader) (*Description, error) {
	var desc Description
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &desc, nil
}

// LoadFile reads and builds a scene file. Mesh paths resolve relative to the file.
func LoadFile(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := desc.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadScene resolves a scene reference: a preset ID, a "file:<name>" ID from
// scenesDir, or a path to a JSON file
func LoadScene(ref, scenesDir string) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(ref, "file:"); ok {
		return LoadFile(filepath.Join(scenesDir, name+".json"))
	}
	if strings.HasSuffix(ref, ".json") {
		return LoadFile(ref)
	}
	return scene.NewBuiltinScene(ref)
}

// Build creates the scene. baseDir is used to resolve mesh paths.
func (d *Description) Build(baseDir string) (*scene.Scene, error) {
	depth, beam := DefaultRecursionDepth, DefaultBeamRaysCount
	if d.Tracer.RecursionDepth != nil {
		depth = *d.Tracer.RecursionDepth
	}
	if d.Tracer.BeamRaysCount != nil {
		beam = *d.Tracer.BeamRaysCount
	}
	defaultMaterial := material.NewEmissive(core.Grey(1))
	if d.Tracer.DefaultMaterial != nil {
		defaultMaterial = d.Tracer.DefaultMaterial.Material()
	}

	s := scene.NewScene(defaultMaterial, depth, beam)
	if err := d.applyImage(s); err != nil {
		return nil, err
	}
	if d.Camera != nil {
		s.CameraConfig = scene.MergeCameraConfig(s.CameraConfig, d.Camera.Override())
	}

	for i, td := range d.Triangles {
		mat, err := d.material(td.Material)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		transform, err := td.Transform.Matrix()
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		t, err := geometry.NewValidatedTriangle(td.Vertices[0].Vec3(), td.Vertices[1].Vec3(), td.Vertices[2].Vec3())
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		s.AddTriangle(t.Transform(transform), mat)
	}

	for i, md := range d.Meshes {
		mat, err := d.material(md.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		transform, err := md.Transform.Matrix()
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		path := md.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		mesh, err := LoadMesh(path, MeshOptions{Fit: md.Fit, Simplify: md.Simplify})
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		s.AddMesh(mesh.Transform(transform), mat)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Description) applyImage(s *scene.Scene) error {
	if d.Image == nil {
		return nil
	}
	img := s.ImageConfig
	if d.Image.Width != 0 {
		img.Width = d.Image.Width
	}
	if d.Image.Height != 0 {
		img.Height = d.Image.Height
	}
	if d.Image.Samples != 0 {
		img.Samples = d.Image.Samples
	}
	if img.Width < 0 || img.Height < 0 || img.Samples < 0 {
		return fmt.Errorf("%w: image %dx%d with %d samples", ErrInvalidDescription, img.Width, img.Height, img.Samples)
	}
	s.ImageConfig = img
	return nil
}

func (d *Description) material(name string) (material.Material, error) {
	md, ok := d.Materials[name]
	if !ok {
		return material.Material{}, fmt.Errorf("%w %q", ErrUnknownMaterial, name)
	}
	return md.Material(), nil
}

// Material converts the description, treating missing colours as black
func (md MaterialDescription) Material() material.Material {
	var m material.Material
	if md.Emission != nil {
		m.Emission = md.Emission.Colour()
	}
	if md.Diffuse != nil {
		m.Diffuse = md.Diffuse.Colour()
	}
	return m
}

// Override converts the description; omitted fields keep the scene's camera
func (cd *CameraDescription) Override() scene.CameraOverride {
	override := scene.CameraOverride{FovY: cd.FovY, ZNear: cd.ZNear, ZFar: cd.ZFar}
	if cd.Eye != nil {
		eye := cd.Eye.Vec3()
		override.Eye = &eye
	}
	if cd.Target != nil {
		target := cd.Target.Vec3()
		override.Target = &target
	}
	if cd.Up != nil {
		up := cd.Up.Vec3()
		override.Up = &up
	}
	return override
}

// Matrix returns the transform, or identity for a nil description
func (td *TransformDescription) Matrix() (core.Mat4, error) {
	if td == nil {
		return core.Identity(), nil
	}
	scale := float32(1)
	if td.Scale != nil {
		scale = *td.Scale
	}
	if !(scale > 0) {
		return core.Mat4{}, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidDescription, scale)
	}
	return core.Similarity(td.Translate.Vec3(), td.Rotate.Vec3(), scale), nil
}
