package bezier

// The query type a filter is registered for.
type Query uint8

const (
	IntersectQuery Query = iota
	OcclusionQuery
)

func (q Query) String() string {
	if q == OcclusionQuery {
		return "occlusion"
	}
	return "intersect"
}

// A user callback that can accept or reject a candidate hit. Filters must not
// modify the ray; they may be invoked several times per intersection call,
// nearest candidate first.
type FilterFunc func(ray *Ray, hit *Hit) bool

// The Geometry interface is implemented by geometry records that own curve
// primitives and may declare user filters.
type Geometry interface {
	// Check whether a filter is registered for the query type.
	HasFilter(q Query) bool

	// Run the filter registered for the query type. Returns true if the hit
	// is accepted.
	RunFilter(q Query, ray *Ray, hit *Hit) bool
}

// The GeometryLookup interface maps a geometry id to its geometry record.
type GeometryLookup interface {
	Geometry(geomID uint32) Geometry
}

// Find the filter-capable geometry for a primitive; returns nil if the
// lookup is missing or no filter is declared for the query.
func filterFor(geoms GeometryLookup, q Query, geomID uint32) Geometry {
	if geoms == nil {
		return nil
	}
	geom := geoms.Geometry(geomID)
	if geom == nil || !geom.HasFilter(q) {
		return nil
	}
	return geom
}
