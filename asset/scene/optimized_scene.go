package scene

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
	"github.com/olekukonko/tablewriter"
)

var (
	ErrUnknownGeometry = errors.New("scene: unknown geometry id")
	ErrNoCamera        = errors.New("scene: no camera defined")
)

// Bvh nodes are comprised of two Vec3 and two multipurpose int32 parameters
// whose value depends on the node type:
//
//   - For non-leaf nodes they are both >0 and point to the L/R child nodes
//   - For leafs:
//   - left W is <= 0 and points to the first curve primitive index
//   - right W is >0 and contains the count of leaf primitives
type BvhNode struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32
}

// Set bounding box.
func (n *BvhNode) SetBBox(bbox types.BBox) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Get bounding box.
func (n *BvhNode) BBox() types.BBox {
	return types.BBox{n.Min, n.Max}
}

// Set left and right child node indices.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *BvhNode) GetChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count.
func (n *BvhNode) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *BvhNode) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Returns true if this is a leaf node.
func (n *BvhNode) IsLeaf() bool {
	return n.LData <= 0
}

// Add offset to indices of child nodes.
func (n *BvhNode) OffsetChildNodes(offset int32) {
	// Ignore leafs
	if n.LData <= 0 {
		return
	}

	n.LData += offset
	n.RData += offset
}

type Scene struct {
	// The BVH tree; node 0 is the root.
	BvhNodeList []BvhNode

	// Curve primitives ordered so that each BVH leaf references a
	// contiguous range.
	CurveList []bezier.Primitive

	// Geometries indexed by geometry id.
	Geometries []*Geometry

	// The scene camera.
	Camera *Camera
}

// Lookup a geometry by id. Returns nil for unknown ids.
func (sc *Scene) Geometry(geomID uint32) bezier.Geometry {
	if int(geomID) >= len(sc.Geometries) || sc.Geometries[geomID] == nil {
		return nil
	}
	return sc.Geometries[geomID]
}

// Lookup a geometry by id returning ErrUnknownGeometry for unknown ids.
func (sc *Scene) GeometryByID(geomID uint32) (*Geometry, error) {
	if int(geomID) >= len(sc.Geometries) || sc.Geometries[geomID] == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGeometry, geomID)
	}
	return sc.Geometries[geomID], nil
}

// Reinstall the geometry filters after a scene has been deserialized.
func (sc *Scene) RestoreFilters() {
	for _, geom := range sc.Geometries {
		if geom != nil {
			geom.SetOpacity(geom.Opacity)
		}
	}
}

// Get the scene bounding box.
func (sc *Scene) BBox() types.BBox {
	if len(sc.BvhNodeList) == 0 {
		return types.EmptyBBox()
	}
	return sc.BvhNodeList[0].BBox()
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	leafs, maxLeafItems := 0, uint32(0)
	for i := range sc.BvhNodeList {
		if !sc.BvhNodeList[i].IsLeaf() {
			continue
		}
		leafs++
		if _, count := sc.BvhNodeList[i].GetPrimitives(); count > maxLeafItems {
			maxLeafItems = count
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", fmt.Sprintf("%d", len(sc.Geometries)), fmtSize(sc.CurveList, sc.BvhNodeList)})
	table.Append([]string{"", "Curves", fmt.Sprintf("%d", len(sc.CurveList)), fmtSize(sc.CurveList)})
	table.Append([]string{"", "BVH nodes", fmt.Sprintf("%d", len(sc.BvhNodeList)), fmtSize(sc.BvhNodeList)})
	table.Append([]string{"", "BVH leafs", fmt.Sprintf("%d", leafs), ""})
	table.Append([]string{"", "Max leaf size", fmt.Sprintf("%d", maxLeafItems), ""})
	table.Append([]string{" ", " ", " ", " "})
	for index, geom := range sc.Geometries {
		if geom == nil {
			continue
		}
		filters := make([]string, 0, 2)
		if geom.HasFilter(bezier.IntersectQuery) {
			filters = append(filters, bezier.IntersectQuery.String())
		}
		if geom.HasFilter(bezier.OcclusionQuery) {
			filters = append(filters, bezier.OcclusionQuery.String())
		}
		if len(filters) == 0 {
			filters = append(filters, "none")
		}
		table.Append([]string{fmt.Sprintf("Geometry %d", index), geom.Name, fmt.Sprintf("filters: %s", strings.Join(filters, ", ")), ""})
	}
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(sc.CurveList, sc.BvhNodeList), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
