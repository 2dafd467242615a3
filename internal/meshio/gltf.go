// Package meshio extracts triangle geometry from glTF/GLB model files.
package meshio

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/mwrenna/go-raytracer/internal/prim"
)

// Triangle is one mesh face in model space.
type Triangle [3]prim.Point

// LoadTriangles reads every triangle primitive from a .gltf or .glb file.
func LoadTriangles(path string) ([]Triangle, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	var tris []Triangle
	for _, mesh := range doc.Meshes {
		meshTris, err := meshTriangles(doc, mesh)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}
		tris = append(tris, meshTris...)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("no triangle geometry in %s", path)
	}
	return tris, nil
}

func meshTriangles(doc *gltf.Document, mesh *gltf.Mesh) ([]Triangle, error) {
	var tris []Triangle
	for _, primitive := range mesh.Primitives {
		if primitive.Mode != gltf.PrimitiveTriangles && primitive.Mode != 0 {
			continue
		}
		posIdx, ok := primitive.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}
		if primitive.Indices != nil {
			indices, err := readIndices(doc, *primitive.Indices)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				tris = append(tris, Triangle{
					positions[indices[i]],
					positions[indices[i+1]],
					positions[indices[i+2]],
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				tris = append(tris, Triangle{positions[i], positions[i+1], positions[i+2]})
			}
		}
	}
	return tris, nil
}

func readPositions(doc *gltf.Document, accessorIdx int) ([]prim.Point, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	data, start, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}
	points := make([]prim.Point, accessor.Count)
	for i := range points {
		offset := start + i*stride
		points[i] = prim.Point{
			X: float64(readFloat32(data[offset:])),
			Y: float64(readFloat32(data[offset+4:])),
			Z: float64(readFloat32(data[offset+8:])),
		}
	}
	return points, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	data, start, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	indices := make([]int, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range indices {
			indices[i] = int(data[start+i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range indices {
			offset := start + i*stride
			indices[i] = int(uint16(data[offset]) | uint16(data[offset+1])<<8)
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range indices {
			offset := start + i*stride
			indices[i] = int(uint32(data[offset]) | uint32(data[offset+1])<<8 |
				uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24)
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}
	return indices, nil
}

func accessorData(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.URI != "" {
		return nil, 0, 0, fmt.Errorf("external buffers are not supported")
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}
	return buffer.Data, view.ByteOffset + accessor.ByteOffset, view.ByteStride, nil
}

func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
