package bvh

import (
	"testing"

	"github.com/achilleasa/strands/asset/scene"
	"github.com/achilleasa/strands/tracer/bezier"
	"github.com/achilleasa/strands/types"
)

// Create a straight curve spanning the diagonal of the given box.
func diagonalCurve(min, max types.Vec3, primID uint32) *bezier.Primitive {
	d := max.Sub(min)
	prim := bezier.NewPrimitive(
		min.Vec4(0),
		min.Add(d.Mul(1.0/3.0)).Vec4(0),
		min.Add(d.Mul(2.0/3.0)).Vec4(0),
		max.Vec4(0),
		0, primID,
	)
	return &prim
}

func quadrantCurves() []BoundedVolume {
	type primSpec struct {
		min types.Vec3
		max types.Vec3
	}

	primSpecs := []primSpec{
		{types.Vec3{-2, 0, -2}, types.Vec3{-1, 1, -1}},
		{types.Vec3{1, 0, -2}, types.Vec3{2, 1, -1}},
		{types.Vec3{-2, 0, 1}, types.Vec3{-1, 1, 2}},
		{types.Vec3{1, 0, 1}, types.Vec3{2, 1, 2}},
	}

	itemList := make([]BoundedVolume, len(primSpecs))
	for idx, ps := range primSpecs {
		itemList[idx] = diagonalCurve(ps.min, ps.max, uint32(idx))
	}
	return itemList
}

func TestLeafCallback(t *testing.T) {
	itemList := quadrantCurves()

	var cbCount = 0
	var expItemListCount = 0
	cb := func(leaf *scene.BvhNode, itemList []BoundedVolume) {
		cbCount++
		if len(itemList) != expItemListCount {
			t.Fatalf("expected leaf callback to be called with %d items; got %d", expItemListCount, len(itemList))
		}
	}

	var expCount = 0

	// Partition each item in a single leaf
	cbCount = 0
	expItemListCount = 1
	treeNodes, stats := Build(itemList, 1, cb, SurfaceAreaHeuristic)

	expCount = 4
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 7
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}
	if stats.Leafs != 4 || stats.PartitionedItems != 4 || stats.MaxLeafItems != 1 {
		t.Fatalf("unexpected build stats %+v", stats)
	}

	// Partition two items in a single leaf
	cbCount = 0
	expItemListCount = 2
	treeNodes, _ = Build(itemList, 2, cb, SurfaceAreaHeuristic)

	expCount = 2
	if cbCount != expCount {
		t.Fatalf("expected leaf callback to be called %d times; called %d", expCount, cbCount)
	}
	expCount = 3
	if len(treeNodes) != expCount {
		t.Fatalf("expected bvh tree to have %d nodes; got %d", expCount, len(treeNodes))
	}
}

func TestNodeBoundsContainChildren(t *testing.T) {
	itemList := quadrantCurves()

	seen := make(map[uint32]bool)
	var offset uint32
	treeNodes, _ := Build(itemList, 1, func(leaf *scene.BvhNode, items []BoundedVolume) {
		for _, item := range items {
			seen[item.(*bezier.Primitive).PrimID] = true
		}
		leaf.SetPrimitives(offset, uint32(len(items)))
		offset += uint32(len(items))
	}, SurfaceAreaHeuristic)

	if len(seen) != len(itemList) {
		t.Fatalf("expected every item to end up in a leaf; got %d of %d", len(seen), len(itemList))
	}

	for index, node := range treeNodes {
		if node.IsLeaf() {
			continue
		}

		left, right := node.GetChildNodes()
		for _, child := range []uint32{left, right} {
			c := treeNodes[child]
			if !node.BBox().Contains(c.Min) || !node.BBox().Contains(c.Max) {
				t.Fatalf("[node %d] child %d bounds %v/%v escape parent bounds %v", index, child, c.Min, c.Max, node.BBox())
			}
		}
	}
}

func TestIdenticalItemsProduceSingleLeaf(t *testing.T) {
	itemList := make([]BoundedVolume, 5)
	for i := range itemList {
		itemList[i] = diagonalCurve(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), uint32(i))
	}

	leafs := 0
	treeNodes, _ := Build(itemList, 1, func(leaf *scene.BvhNode, items []BoundedVolume) {
		leafs++
		if len(items) != 5 {
			t.Fatalf("expected all items in a single leaf; got %d", len(items))
		}
	}, SurfaceAreaHeuristic)

	if leafs != 1 || len(treeNodes) != 1 {
		t.Fatalf("expected a single leaf node; got %d leafs and %d nodes", leafs, len(treeNodes))
	}
}
