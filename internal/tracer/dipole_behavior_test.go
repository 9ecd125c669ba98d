package tracer_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

var _ = Describe("tracing a dipole", func() {
	var (
		sys      *field.System
		settings tracer.Settings
	)

	BeforeEach(func() {
		sys = field.Dipole(5, 1)
		settings = tracer.DefaultSettings()
	})

	It("fans lines only from the negative charge", func() {
		tr := tracer.New(settings, tracer.NewEuler())
		lines, err := tr.TraceAll(context.Background(), sys)
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(settings.LinesPerCharge))

		neg := sys.Charges[1].Position
		for _, line := range lines {
			Expect(line[0].Sub(neg).Norm()).To(BeNumerically("~", field.VisualRadius, 1e-9))
		}
	})

	It("carries lines toward the positive charge", func() {
		settings.Length = 40
		tr := tracer.New(settings, tracer.NewRK4())
		lines, err := tr.TraceAll(context.Background(), sys)
		Expect(err).NotTo(HaveOccurred())

		pos := sys.Charges[0].Position
		closer := 0
		for _, line := range lines {
			if line.Last().Sub(pos).Norm() < line[0].Sub(pos).Norm() {
				closer++
			}
		}
		// The fan is symmetric: the lines bending around the far side
		// still dominate toward the positive pole.
		Expect(closer).To(BeNumerically(">", len(lines)/2))
	})

	It("refines the step size with resolution", func() {
		settings.Resolution = 4
		tr := tracer.New(settings, tracer.NewEuler())

		start := tracer.StartPoints(sys.Charges[1], settings.LinesPerCharge)[0]
		line, err := tr.Trace(context.Background(), sys, start)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(line)).To(BeNumerically(">", 2))

		Expect(line[1].Sub(line[0]).Norm()).To(BeNumerically("~", 0.25, 1e-9))
	})

	It("stops no later with a looser approach tolerance", func() {
		strict, loose := settings, settings
		strict.ApproachTol = 1e-3
		loose.ApproachTol = 0.5

		start := field.Vec{X: 5 - field.VisualRadius, Y: 0.05, Z: 0}
		a, err := tracer.New(strict, tracer.NewEuler()).Trace(context.Background(), sys, start)
		Expect(err).NotTo(HaveOccurred())
		b, err := tracer.New(loose, tracer.NewEuler()).Trace(context.Background(), sys, start)
		Expect(err).NotTo(HaveOccurred())

		Expect(len(b)).To(BeNumerically("<=", len(a)))
	})

	It("rejects invalid settings", func() {
		settings.Length = -1
		tr := tracer.New(settings, tracer.NewEuler())
		_, err := tr.TraceAll(context.Background(), sys)
		Expect(err).To(MatchError(field.ErrParameterBounds))
	})
})
