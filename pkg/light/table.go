// Package light builds and samples the Robin-Hood alias table over a
// scene's emissive triangles (spec §4.7), and implements the MIS direct
// lighting step the integrator calls at each diffuse-lobe vertex (§4.9).
package light

import (
	"math"
	"sort"

	"github.com/mfontaine/pathtrace/pkg/core"
)

// Entry is one alias-table bin: two candidate outcomes and the probability
// split between them (spec §3 "light pick entry"). A single Entry with
// Ratio < 0 is the sentinel meaning "no emissive triangles" (spec §4.7,
// §7 "zero-emissive scene is not an error").
type Entry struct {
	TriangleA, TriangleB uint32
	AreaA, AreaB         float64
	PickPDFA, PickPDFB   float64
	Ratio                float64
}

// Table is the built alias table plus a sentinel flag for fast empty-scene
// checks without inspecting Entries[0] at every call site.
type Table struct {
	Entries []Entry
	Empty   bool
}

// bin is the intermediate Robin-Hood accumulator: one emissive triangle's
// probability mass, plus whatever has been donated into it so far.
type bin struct {
	indexA       uint32
	probabilityA float64
	indexB       uint32
	probabilityB float64
}

// BuildTable implements the Robin-Hood alias table construction verbatim
// (spec §4.7, grounded on the original's build_light_pick_table): normalize
// each emissive triangle's power (emissive·(1,1,1)·area) into a probability,
// then repeatedly donate probability mass from the most-probable bin into
// the least-probable ones until every bin holds (up to) two outcomes
// summing to the average probability 1/N.
//
// areas[i]/powers[i] must be precomputed per triangle index (power = 0 for
// non-emissive triangles) and share a length; emissive selects which
// indices participate.
func BuildTable(areas, powers []float64, emissive []bool) Table {
	n := len(areas)
	totalPower := 0.0
	totalTris := 0
	for i := 0; i < n; i++ {
		if !emissive[i] {
			continue
		}
		totalTris++
		totalPower += powers[i]
	}

	if totalTris == 0 || totalPower == 0 {
		return Table{Entries: []Entry{{Ratio: -1}}, Empty: true}
	}

	probabilities := make([]float64, n)
	for i := 0; i < n; i++ {
		if emissive[i] {
			probabilities[i] = powers[i] / totalPower
		}
	}
	bins := make([]bin, 0, totalTris)
	for i := 0; i < n; i++ {
		if emissive[i] && probabilities[i] != 0 {
			bins = append(bins, bin{indexA: uint32(i), probabilityA: probabilities[i]})
		}
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].probabilityA < bins[j].probabilityA })
	averageProbability := 1.0 / float64(len(bins))

	for i := range bins {
		needed := averageProbability - bins[i].probabilityA
		if needed <= 0 {
			break
		}
		last := len(bins) - 1
		bins[i].indexB = bins[last].indexA
		bins[i].probabilityB = needed
		bins[last].probabilityA -= needed
		// Keep bins[i+1:] sorted so a donor that fell below the average is
		// topped up by a later iteration.
		for j := last; j > i+1 && bins[j].probabilityA < bins[j-1].probabilityA; j-- {
			bins[j], bins[j-1] = bins[j-1], bins[j]
		}
	}

	entries := make([]Entry, len(bins))
	for i, b := range bins {
		entries[i] = Entry{
			TriangleA: b.indexA,
			TriangleB: b.indexB,
			AreaA:     areas[b.indexA],
			AreaB:     areas[b.indexB],
			PickPDFA:  probabilities[b.indexA],
			PickPDFB:  probabilities[b.indexB],
			Ratio:     b.probabilityA / (b.probabilityA + b.probabilityB),
		}
	}

	return Table{Entries: entries}
}

// Pick selects a light triangle at runtime using the sampler's next two
// draws (spec §4.7): bin ⌊r.x·N⌋, then outcome A if r.y < ratio else B.
func (t Table) Pick(rng *core.Sampler) (triangleIndex uint32, area, pickPDF float64, ok bool) {
	if t.Empty {
		return 0, 0, 0, false
	}
	r1, r2 := rng.Gen2()
	idx := int(r1 * float64(len(t.Entries)))
	if idx >= len(t.Entries) {
		idx = len(t.Entries) - 1
	}
	e := t.Entries[idx]
	if r2 < e.Ratio {
		return e.TriangleA, e.AreaA, e.PickPDFA, true
	}
	return e.TriangleB, e.AreaB, e.PickPDFB, true
}

// PickTrianglePoint draws a uniformly-area-distributed point on triangle
// (a,b,c), per Shirley & Chiu's equation 1 (spec §4.7 "uniform area
// sampling").
func PickTrianglePoint(a, b, c core.Vec3, rng *core.Sampler) core.Vec3 {
	r1, r2 := rng.Gen2()
	r1Sqrt := math.Sqrt(math.Max(r1, 0))
	return a.Multiply(1 - r1Sqrt).
		Add(b.Multiply(r1Sqrt * (1 - r2))).
		Add(c.Multiply(r1Sqrt * r2))
}

// PDF is the solid-angle density of hitting a light of the given area at
// distance `dist` along `dir`, given the light's (flat) shading normal
// (spec §4.9 step 4).
func PDF(area, dist float64, lightNormal, dir core.Vec3) float64 {
	cosTheta := lightNormal.Dot(dir.Negate())
	if cosTheta <= 0 {
		return 0
	}
	return (dist * dist) / (area * cosTheta)
}
