package bsdf_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mfontaine/pathtrace/pkg/bsdf"
	"github.com/mfontaine/pathtrace/pkg/core"
)

func TestLambertianEnergyConservation(t *testing.T) {
	albedo := core.NewVec3(1, 1, 1)
	l := bsdf.Lambertian{Albedo: albedo}
	normal := core.NewVec3(0, 1, 0)
	view := core.NewVec3(0, 1, 0)

	rng := core.NewSampler(42)
	sum := core.Vec3{}
	const n = 100000
	for i := 0; i < n; i++ {
		s := l.Sample(view, normal, &rng)
		if s.PDF <= 0 {
			continue
		}
		contribution := s.Spectrum.Multiply(1 / s.PDF)
		sum = sum.Add(contribution)
	}
	mean := sum.Multiply(1.0 / n)

	require.InDelta(t, albedo.X, mean.X, 0.02)
	require.InDelta(t, albedo.Y, mean.Y, 0.02)
	require.InDelta(t, albedo.Z, mean.Z, 0.02)
}

func TestPBRSamplePDFEvalConsistency(t *testing.T) {
	rng := core.NewSampler(7)
	r := rand.New(rand.NewSource(7))

	for trial := 0; trial < 2000; trial++ {
		normal := core.NewVec3(0, 1, 0)
		view := core.NewVec3(r.Float64()-0.5, r.Float64()+0.2, r.Float64()-0.5).Normalize()

		p := bsdf.PBR{
			Albedo:      core.NewVec3(0.6, 0.4, 0.2),
			Roughness:   0.3 + r.Float64()*0.6,
			Metallic:    r.Float64(),
			ClampWeight: core.NewVec2(0.1, 0.9),
		}

		s := p.Sample(view, normal, &rng)
		if s.PDF <= 0 {
			continue
		}

		evaluated := p.Evaluate(view, normal, s.Direction, s.Lobe)
		pdf := p.PDF(view, normal, s.Direction, s.Lobe)
		if pdf <= 0 {
			continue
		}

		want := evaluated.Multiply(1 / pdf)
		require.InDelta(t, want.X, s.Spectrum.X, 1e-6, "trial %d", trial)
		require.InDelta(t, want.Y, s.Spectrum.Y, 1e-6, "trial %d", trial)
		require.InDelta(t, want.Z, s.Spectrum.Z, 1e-6, "trial %d", trial)
	}
}
