package hill_test

import (
	"context"
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
	"github.com/san-kum/hillfit/internal/lsq"
)

func synthetic(p hill.Params, lo, hi float64, n int) ([]float64, []float64) {
	x, err := hill.LogSpace(lo, hi, n)
	Expect(err).NotTo(HaveOccurred())
	return x, p.EvalAll(x)
}

var _ = Describe("Estimate", func() {
	Context("with exact Hill data", func() {
		truth := hill.Params{Top: 95, Bottom: 5, EC50: 10, NH: 2}

		It("recovers the generating parameters", func() {
			x, y := synthetic(truth, 1, 100, 20)
			p, err := hill.Estimate(x, y)
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Top).To(BeNumerically("~", truth.Top, 1e-3*truth.Top))
			Expect(p.Bottom).To(BeNumerically("~", truth.Bottom, 1e-2))
			Expect(p.EC50).To(BeNumerically("~", truth.EC50, 1e-3*truth.EC50))
			Expect(p.NH).To(BeNumerically("~", truth.NH, 1e-3*truth.NH))
			Expect(hill.RSquared(x, y, p)).To(BeNumerically("~", 1, 1e-6))
		})

		It("holds bottom at zero when asked", func() {
			zeroBased := hill.Params{Top: 100, Bottom: 0, EC50: 5, NH: 1.5}
			x, y := synthetic(zeroBased, 0.5, 50, 15)

			est, err := hill.NewEstimator(hill.WithFixedBottom(true)).
				EstimateDetailed(context.Background(), x, y)
			Expect(err).NotTo(HaveOccurred())
			Expect(est.FixedBottom).To(BeTrue())
			Expect(est.Params.Bottom).To(Equal(0.0))
			Expect(est.Bounds.Lower.Bottom).To(Equal(0.0))
			Expect(est.Bounds.Upper.Bottom).To(Equal(0.0))
			Expect(est.Params.EC50).To(BeNumerically("~", 5, 1e-3))
			Expect(est.Params.Top).To(BeNumerically("~", 100, 1e-2))
		})
	})

	Context("with the reference dataset", func() {
		var ref dataset.Series
		BeforeEach(func() {
			ref = dataset.Reference()
		})

		It("fits a sigmoid centred inside the data", func() {
			est, err := hill.NewEstimator().EstimateDetailed(context.Background(), ref.X, ref.Y)
			Expect(err).NotTo(HaveOccurred())

			p := est.Params
			Expect(p.EC50).To(BeNumerically(">=", ref.X[0]))
			Expect(p.EC50).To(BeNumerically("<=", ref.X[len(ref.X)-1]))
			Expect(p.EC50).To(BeNumerically("~", 13, 0.5))
			Expect(p.NH).To(BeNumerically(">", 0))
			Expect(p.Top).To(BeNumerically("~", 100, 5))
			Expect(p.Bottom).To(BeNumerically("~", 0, 5))
			Expect(hill.RSquared(ref.X, ref.Y, p)).To(BeNumerically(">", 0.99))
			Expect(est.Status).NotTo(BeZero())
		})

		It("keeps every parameter inside its bounds", func() {
			est, err := hill.NewEstimator().EstimateDetailed(context.Background(), ref.X, ref.Y)
			Expect(err).NotTo(HaveOccurred())
			Expect(est.Bounds.Contains(est.Params)).To(BeTrue())
			Expect(est.Bounds).To(Equal(hill.DeriveBounds(ref.X, ref.Y)))
			Expect(est.Initial).To(Equal(hill.InitialGuess(ref.X, ref.Y)))
		})

		It("is deterministic across concurrent calls", func() {
			want, err := hill.Estimate(ref.X, ref.Y)
			Expect(err).NotTo(HaveOccurred())

			est := hill.NewEstimator()
			got := make([]hill.Params, 8)
			var wg sync.WaitGroup
			for i := range got {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					got[i], _ = est.Estimate(ref.X, ref.Y)
				}(i)
			}
			wg.Wait()
			for _, p := range got {
				Expect(p).To(Equal(want))
			}
		})

		It("does not modify its inputs", func() {
			x := append([]float64(nil), ref.X...)
			y := append([]float64(nil), ref.Y...)
			_, err := hill.Estimate(x, y)
			Expect(err).NotTo(HaveOccurred())
			Expect(x).To(Equal(ref.X))
			Expect(y).To(Equal(ref.Y))
		})

		It("reports a convergence failure when evaluations run out", func() {
			_, err := hill.Estimate(ref.X, ref.Y, hill.WithMaxEvaluations(3))
			Expect(err).To(MatchError(hill.ErrConvergence))
			Expect(errors.Is(err, lsq.ErrMaxEvaluations)).To(BeTrue())
		})

		It("returns the context error when canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := hill.NewEstimator().EstimateDetailed(ctx, ref.X, ref.Y)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	It("keeps a decreasing dataset inside its bounds", func() {
		x, y := synthetic(hill.Params{Top: 0, Bottom: 100, EC50: 3, NH: 1}, 0.1, 100, 12)
		est, err := hill.NewEstimator().EstimateDetailed(context.Background(), x, y)
		if err != nil {
			Expect(err).To(MatchError(hill.ErrConvergence))
			return
		}
		Expect(est.Bounds.Contains(est.Params)).To(BeTrue())
	})

	DescribeTable("rejects invalid input",
		func(x, y []float64, want error) {
			_, err := hill.Estimate(x, y)
			Expect(err).To(MatchError(want))

			var fe *hill.FitError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Op).To(Equal("estimate"))
		},
		Entry("three points", []float64{1, 2, 3}, []float64{0, 50, 100}, hill.ErrInsufficientData),
		Entry("empty", []float64{}, []float64{}, hill.ErrInsufficientData),
		Entry("length mismatch", []float64{1, 2, 3, 4}, []float64{0, 1, 2}, hill.ErrLengthMismatch),
		Entry("unsorted x", []float64{1, 3, 2, 4}, []float64{0, 10, 20, 30}, hill.ErrDomainOrder),
		Entry("zero first x", []float64{0, 1, 2, 3}, []float64{0, 10, 20, 30}, hill.ErrDomainOrder),
		Entry("negative first x", []float64{-1, 1, 2, 3}, []float64{0, 10, 20, 30}, hill.ErrDomainOrder),
		Entry("nan y", []float64{1, 2, 3, 4}, []float64{0, math.NaN(), 20, 30}, hill.ErrNonFinite),
		Entry("inf x", []float64{1, 2, 3, math.Inf(1)}, []float64{0, 10, 20, 30}, hill.ErrNonFinite),
		Entry("constant y", []float64{1, 2, 3, 4}, []float64{7, 7, 7, 7}, hill.ErrConvergence),
	)

	It("explains infeasible bounds for constant data", func() {
		_, err := hill.Estimate([]float64{1, 2, 3, 4, 5}, []float64{2, 2, 2, 2, 2})
		Expect(errors.Is(err, lsq.ErrInfeasibleBounds)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("constant"))
	})
})

var _ = Describe("InitialGuess and DeriveBounds", func() {
	x := []float64{2, 4, 8, 16}
	y := []float64{10, 20, 60, 90}

	It("seeds from the data extremes", func() {
		Expect(hill.InitialGuess(x, y)).To(Equal(hill.Params{Top: 90, Bottom: 10, EC50: 7, NH: 1}))
	})

	It("widens the box by half the y span", func() {
		b := hill.DeriveBounds(x, y)
		Expect(b.Lower).To(Equal(hill.Params{Top: 50, Bottom: -30, EC50: 0.2, NH: 0.01}))
		Expect(b.Upper).To(Equal(hill.Params{Top: 130, Bottom: 50, EC50: 160, NH: 100}))
	})
})
