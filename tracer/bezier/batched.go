package bezier

// The batched strategy flattens the curve into BatchWidth segments whose end
// points are evaluated with precomputed Bernstein weights and tests all of
// them with the cone approximation in one pass.
type Batched struct {
	stats *Stats
}

// Create a batched intersector. The stats argument may be nil.
func NewBatched(stats *Stats) *Batched {
	return &Batched{stats: stats}
}

func (b *Batched) Name() string {
	return "batched"
}

// Flatten the curve in ray space and collect the segments hit by the ray.
func (b *Batched) candidates(pre *Precalculations, ray *Ray, prim *Primitive) candidateSet {
	b.stats.prim()

	curve := pre.ToRaySpace(ray, prim, batchLevels)
	p0 := curve.EvalBatch(&startBasis)
	p1 := curve.EvalBatch(&endBasis)

	var cs candidateSet
	for i := 0; i < BatchWidth; i++ {
		u, t, ok := coneTest(p0[i], p1[i], ray, ray.TFar)
		if !ok {
			continue
		}
		cs.set(i, (float32(i)+u)/BatchWidth, t)
	}

	b.stats.candidates(cs.len())
	return cs
}

func (b *Batched) Intersect(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup) {
	cs := b.candidates(pre, ray, prim)
	if cs.empty() {
		return
	}

	if hit, ok := cs.resolve(IntersectQuery, ray, prim, geoms, b.stats); ok {
		ray.commit(&hit)
		b.stats.hit()
	}
}

func (b *Batched) Occluded(pre *Precalculations, ray *Ray, prim *Primitive, geoms GeometryLookup) bool {
	cs := b.candidates(pre, ray, prim)
	if cs.empty() {
		return false
	}

	if _, ok := cs.resolve(OcclusionQuery, ray, prim, geoms, b.stats); ok {
		b.stats.occlusion()
		return true
	}
	return false
}
