package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
)

// boundaryStore reads the national clip polygon and the division outlines from
// shapefiles. Each file is decoded once; failed reads are retried on the next call.
type boundaryStore struct {
	nationalPath string
	divisionPath string
	nameField    string

	mu       sync.Mutex
	national [][][][2]float64
	outlines *dto.FeatureCollection
}

func NewBoundaryStore(nationalPath, divisionPath, nameField string) *boundaryStore {
	return &boundaryStore{
		nationalPath: nationalPath,
		divisionPath: divisionPath,
		nameField:    nameField,
	}
}

// National returns MultiPolygon coordinates for the first feature of the
// national boundary file.
func (s *boundaryStore) National(ctx context.Context) ([][][][2]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.national != nil {
		return s.national, nil
	}

	d, err := shp.NewDecoder(s.nationalPath)
	if err != nil {
		return nil, errs.NewDataSourceError("read", "failed to open national boundary", err)
	}
	defer d.Close()

	g, _, more := d.DecodeRowFields()
	if err := d.Error(); err != nil {
		return nil, errs.NewDataSourceError("read", "failed to decode national boundary", err)
	}
	if !more || g == nil {
		return nil, errs.NewDataSourceError("read", "national boundary is empty", fmt.Errorf("no features in %s", s.nationalPath))
	}
	coords, err := MultiPolygonCoordinates(g)
	if err != nil {
		return nil, errs.NewDataSourceError("read", "unsupported national boundary geometry", err)
	}
	s.national = coords
	return s.national, nil
}

// DivisionOutlines returns every division polygon as a GeoJSON feature with a
// "name" property taken from the configured attribute field.
func (s *boundaryStore) DivisionOutlines(ctx context.Context) (*dto.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outlines != nil {
		return s.outlines, nil
	}

	d, err := shp.NewDecoder(s.divisionPath)
	if err != nil {
		return nil, errs.NewDataSourceError("read", "failed to open division boundaries", err)
	}
	defer d.Close()

	fc := &dto.FeatureCollection{Type: "FeatureCollection", Features: []dto.Feature{}}
	for {
		g, fields, more := d.DecodeRowFields(s.nameField)
		if !more {
			break
		}
		if g == nil {
			continue
		}
		coords, err := MultiPolygonCoordinates(g)
		if err != nil {
			return nil, errs.NewDataSourceError("read", "unsupported division geometry", err)
		}
		fc.Features = append(fc.Features, dto.Feature{
			Type:       "Feature",
			Geometry:   dto.Geometry{Type: "MultiPolygon", Coordinates: coords},
			Properties: map[string]any{"name": cleanField(fields[s.nameField])},
		})
	}
	if err := d.Error(); err != nil {
		return nil, errs.NewDataSourceError("read", "failed to decode division boundaries", err)
	}
	s.outlines = fc
	return s.outlines, nil
}

func cleanField(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, "\x00", ""))
}

// MultiPolygonCoordinates converts a shapefile geometry into GeoJSON-ordered
// MultiPolygon coordinates.
func MultiPolygonCoordinates(g geom.Geom) ([][][][2]float64, error) {
	switch t := g.(type) {
	case geom.Polygon:
		return GroupRings(t), nil
	case *geom.Polygon:
		return GroupRings(*t), nil
	case geom.MultiPolygon:
		var out [][][][2]float64
		for _, p := range t {
			out = append(out, GroupRings(p)...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("geometry %T is not polygonal", g)
	}
}

// GroupRings splits the flat ring list of a shapefile polygon record into
// polygons. A ring wound like the first ring starts a new polygon; a ring
// wound the other way is a hole in the current one. Rings are closed.
func GroupRings(rings geom.Polygon) [][][][2]float64 {
	var (
		out       [][][][2]float64
		outerSign float64
	)
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		area := signedArea(ring)
		if area == 0 {
			continue
		}
		coords := closeRing(ring)
		if len(out) == 0 {
			outerSign = area
			out = append(out, [][][2]float64{coords})
			continue
		}
		if (area > 0) == (outerSign > 0) {
			out = append(out, [][][2]float64{coords})
			continue
		}
		last := len(out) - 1
		out[last] = append(out[last], coords)
	}
	return out
}

func signedArea(ring geom.Path) float64 {
	var a float64
	for i := range ring {
		j := (i + 1) % len(ring)
		a += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return a / 2
}

func closeRing(ring geom.Path) [][2]float64 {
	coords := make([][2]float64, 0, len(ring)+1)
	for _, p := range ring {
		coords = append(coords, [2]float64{p.X, p.Y})
	}
	if first, last := ring[0], ring[len(ring)-1]; first != last {
		coords = append(coords, [2]float64{first.X, first.Y})
	}
	return coords
}
