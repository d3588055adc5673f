package models

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softraster/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FitSize rescales the loaded mesh so its largest extent equals FitSize,
	// centered on the origin. Zero keeps the source coordinates.
	FitSize float64

	// FlipV converts glTF's top-left texture origin to the bottom-left
	// origin the texture sampler expects.
	FlipV bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FitSize: 2,
		FlipV:   true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromDocument flattens every triangle primitive of doc into one mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("gltf")

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.FitSize > 0 {
		mesh.FitToCube(l.FitSize)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAcc, err := accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, posAcc, nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvAcc, err := accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("uvs: %w", err)
			}
			uvs, err = modeler.ReadTextureCoord(doc, uvAcc, nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		// UVs share the vertex index, so both slices grow in lockstep.
		base := len(mesh.Vertices)
		for i, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
			var uv math3d.Vec2
			if i < len(uvs) {
				uv = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
				if l.FlipV {
					uv.Y = 1 - uv.Y
				}
			}
			mesh.UVs = append(mesh.UVs, uv)
		}

		var indices []uint32
		if prim.Indices != nil {
			idxAcc, err := accessor(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("indices: %w", err)
			}
			indices, err = modeler.ReadIndices(doc, idxAcc, nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF front faces wind counter-clockwise, which already yields the
		// outward (b-a)×(c-a) normal.
		c := primitiveColor(doc, prim)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, cc := base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2])
			mesh.Faces = append(mesh.Faces, Face{
				A: a, B: b, C: cc,
				AUV: a, BUV: b, CUV: cc,
				Color: c,
			})
		}
	}

	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrIndexOutOfRange)
	}
	return doc.Accessors[idx], nil
}

// primitiveColor returns the base color factor of the primitive's material.
func primitiveColor(doc *gltf.Document, prim *gltf.Primitive) color.RGBA {
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
		return DefaultFaceColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil {
		return DefaultFaceColor
	}
	f := pbr.BaseColorFactorOrDefault()
	return color.RGBA{unitToByte(f[0]), unitToByte(f[1]), unitToByte(f[2]), unitToByte(f[3])}
}

func unitToByte(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable image it references. The image is nil when there is none.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	return NewGLTFLoader().LoadWithTexture(path)
}

// LoadWithTexture is Load plus the first decodable embedded or sibling
// image of the document.
func (l *GLTFLoader) LoadWithTexture(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)

	for _, data := range imageData(doc, filepath.Dir(path)) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return mesh, img, nil
		}
	}
	return mesh, nil, nil
}

// imageData returns the encoded bytes of every image in doc, embedded or
// stored next to the document.
func imageData(doc *gltf.Document, dir string) [][]byte {
	var out [][]byte
	for _, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			if *img.BufferView >= len(doc.BufferViews) {
				continue
			}
			bv := doc.BufferViews[*img.BufferView]
			if bv.Buffer >= len(doc.Buffers) {
				continue
			}
			buf := doc.Buffers[bv.Buffer]
			end := bv.ByteOffset + bv.ByteLength
			if buf.Data != nil && end <= len(buf.Data) {
				out = append(out, buf.Data[bv.ByteOffset:end])
			}
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			data, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err == nil {
				out = append(out, data)
			}
		}
	}
	return out
}
