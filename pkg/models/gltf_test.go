package models

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softraster/pkg/math3d"
)

// quadDocument builds a two-triangle quad with a red material.
func quadDocument(indices []uint16) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, 0},
	})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{
		{0, 1}, {1, 1}, {1, 0}, {0, 0},
	})
	idx := modeler.WriteIndices(doc, indices)

	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uvs},
			Material:   gltf.Index(0),
		}},
	}}
	return doc
}

func TestFromDocument(t *testing.T) {
	loader := &GLTFLoader{FlipV: true}
	mesh, err := loader.FromDocument(quadDocument([]uint16{0, 1, 2, 0, 2, 3}))
	if err != nil {
		t.Fatalf("FromDocument() error = %v", err)
	}

	if got := mesh.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	if got := mesh.TriangleCount(); got != 2 {
		t.Errorf("TriangleCount() = %d, want 2", got)
	}

	red := color.RGBA{255, 0, 0, 255}
	for i, f := range mesh.Faces {
		if f.Color != red {
			t.Errorf("face %d color = %v, want %v", i, f.Color, red)
		}
		// Counter-clockwise in the XY plane: normal faces +Z.
		if n := mesh.FaceNormal(i); n.Z <= 0 {
			t.Errorf("face %d normal = %v, want +Z", i, n)
		}
	}

	// V is flipped to a bottom-left origin.
	if got := mesh.UVs[0]; got != math3d.V2(0, 0) {
		t.Errorf("UVs[0] = %v, want (0,0)", got)
	}
	if got := mesh.UVs[2]; got != math3d.V2(1, 1) {
		t.Errorf("UVs[2] = %v, want (1,1)", got)
	}
}

func TestFromDocumentRejectsBadIndices(t *testing.T) {
	_, err := NewGLTFLoader().FromDocument(quadDocument([]uint16{0, 1, 7}))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("FromDocument() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestFromDocumentEmpty(t *testing.T) {
	_, err := NewGLTFLoader().FromDocument(gltf.NewDocument())
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("FromDocument() error = %v, want ErrNoGeometry", err)
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(quadDocument([]uint16{0, 1, 2, 0, 2, 3}), path); err != nil {
		t.Fatalf("SaveBinary() error = %v", err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB() error = %v", err)
	}
	if mesh.Name != "quad.glb" {
		t.Errorf("Name = %q, want quad.glb", mesh.Name)
	}
	if got := mesh.Size().X; got < 1.999 || got > 2.001 {
		t.Errorf("fitted width = %v, want 2", got)
	}
	if !mesh.Center().ApproxEqual(math3d.Vec3{}, 1e-6) {
		t.Errorf("Center() = %v, want origin", mesh.Center())
	}

	_, img, err := LoadGLBWithTexture(path)
	if err != nil {
		t.Fatalf("LoadGLBWithTexture() error = %v", err)
	}
	if img != nil {
		t.Error("LoadGLBWithTexture() returned an image for a document without images")
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	if _, err := LoadGLB("/nonexistent/path.glb"); err == nil {
		t.Error("LoadGLB() expected error for nonexistent file")
	}
}
