package hill_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
)

var _ = Describe("Fit", func() {
	It("assembles a full report for the reference dataset", func() {
		ref := dataset.Reference()
		rep, err := hill.Fit(context.Background(), ref.X, ref.Y, hill.WithResolution(50))
		Expect(err).NotTo(HaveOccurred())

		Expect(rep.Points).To(Equal(ref.Len()))
		Expect(rep.XFit).To(HaveLen(50))
		Expect(rep.RSquared).To(BeNumerically(">", 0.99))
		Expect(rep.Metrics).To(HaveKey("rmse"))
		Expect(rep.Metrics).To(HaveKey("max_abs_residual"))
		Expect(rep.Metrics["rmse"]).To(BeNumerically("<", 5))
		Expect(rep.Warnings).To(BeEmpty())
	})

	It("propagates estimation errors", func() {
		_, err := hill.Fit(context.Background(), []float64{1, 2}, []float64{1, 2})
		Expect(err).To(MatchError(hill.ErrInsufficientData))
	})
})

var _ = Describe("Check", func() {
	x := []float64{1, 2, 5, 10}
	bounds := hill.Bounds{
		Lower: hill.Params{Top: 50, Bottom: -50, EC50: 0.1, NH: 0.01},
		Upper: hill.Params{Top: 150, Bottom: 50, EC50: 100, NH: 100},
	}

	It("accepts an interior fit", func() {
		est := &hill.Estimation{Params: hill.Params{Top: 100, Bottom: 0, EC50: 4, NH: 2}, Bounds: bounds}
		Expect(hill.Check(x, est)).To(BeEmpty())
	})

	It("warns about an EC50 beyond the data", func() {
		est := &hill.Estimation{Params: hill.Params{Top: 100, Bottom: 0, EC50: 50, NH: 2}, Bounds: bounds}
		Expect(hill.Check(x, est)).To(ConsistOf(ContainSubstring("outside the observed range")))
	})

	It("warns about parameters pinned to a bound", func() {
		est := &hill.Estimation{Params: hill.Params{Top: 100, Bottom: 0, EC50: 4, NH: 100}, Bounds: bounds}
		Expect(hill.Check(x, est)).To(ConsistOf(ContainSubstring("nH 100 is at its upper bound")))
	})

	It("ignores a fixed bottom", func() {
		fixed := bounds
		fixed.Lower.Bottom, fixed.Upper.Bottom = 0, 0
		est := &hill.Estimation{
			Params:      hill.Params{Top: 100, Bottom: 0, EC50: 4, NH: 2},
			Bounds:      fixed,
			FixedBottom: true,
		}
		Expect(hill.Check(x, est)).To(BeEmpty())
	})
})
