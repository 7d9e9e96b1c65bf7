package hill_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
)

// referenceCurve is the resampled fit of the reference dataset at 25 points.
var referenceCurve = []float64{
	-1.2009268354077514, -1.1019386026962077, -0.9361462741726332, -0.6589530187564369,
	-0.1968630200694157, 0.5697006355299381, 1.8311066794316677, 3.879402140361975,
	7.134776473131587, 12.135978958765994, 19.432438647098934, 29.31326172256841,
	41.42513346071518, 54.5824393128962, 67.12584843884352, 77.68051747251918,
	85.66803238258414, 91.24090038664565, 94.91218306602104, 97.24014055848994,
	98.68074429626357, 99.55881941045381, 100.08908673834162, 100.40752377313935,
	100.59810875187523,
}

var _ = Describe("LogSpace", func() {
	It("spaces values evenly in log10 and keeps the endpoints", func() {
		xs, err := hill.LogSpace(9.21, 17.58, 25)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(25))
		Expect(xs[0]).To(Equal(9.21))
		Expect(xs[24]).To(Equal(17.58))
		Expect(xs[1]).To(BeNumerically("~", 9.46145508, 1e-6))

		step := math.Log10(xs[1]) - math.Log10(xs[0])
		for i := 2; i < len(xs); i++ {
			Expect(math.Log10(xs[i]) - math.Log10(xs[i-1])).To(BeNumerically("~", step, 1e-12))
		}
	})

	DescribeTable("rejects unusable ranges",
		func(lo, hi float64, n int, want error) {
			_, err := hill.LogSpace(lo, hi, n)
			Expect(err).To(MatchError(want))
		},
		Entry("single point", 1.0, 10.0, 1, hill.ErrResolution),
		Entry("zero points", 1.0, 10.0, 0, hill.ErrResolution),
		Entry("zero start", 0.0, 10.0, 5, hill.ErrDomain),
		Entry("negative end", 1.0, -10.0, 5, hill.ErrDomain),
	)
})

var _ = Describe("Evaluate", func() {
	ref := dataset.Reference()

	It("reproduces the reference curve", func() {
		p, err := hill.Estimate(ref.X, ref.Y)
		Expect(err).NotTo(HaveOccurred())

		res, err := hill.Evaluate(ref.X, ref.Y, p, len(ref.Y))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.XFit).To(HaveLen(len(referenceCurve)))
		for i, want := range referenceCurve {
			Expect(res.YFit[i]).To(BeNumerically("~", want, 1.0), "point %d", i)
		}
		Expect(res.RSquared).To(BeNumerically(">", 0.99))
	})

	It("defaults the resolution to the sample count", func() {
		p := hill.Params{Top: 100, Bottom: 0, EC50: 13, NH: 10}
		res, err := hill.Evaluate(ref.X, ref.Y, p, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.XFit).To(HaveLen(ref.Len()))
		Expect(res.YFit).To(HaveLen(ref.Len()))
	})

	It("honours an explicit resolution", func() {
		p := hill.Params{Top: 100, Bottom: 0, EC50: 13, NH: 10}
		res, err := hill.Evaluate(ref.X, ref.Y, p, 200)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.XFit).To(HaveLen(200))
		Expect(res.XFit[0]).To(Equal(ref.X[0]))
		Expect(res.XFit[199]).To(Equal(ref.X[ref.Len()-1]))
	})

	It("scores a perfect model at one", func() {
		p := hill.Params{Top: 50, Bottom: 2, EC50: 4, NH: 1.2}
		x := []float64{1, 2, 4, 8, 16}
		res, err := hill.Evaluate(x, p.EvalAll(x), p, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.RSquared).To(BeNumerically("~", 1, 1e-12))
	})

	It("lets a bad model score below zero", func() {
		p := hill.Params{Top: 1000, Bottom: 1000, EC50: 13, NH: 1}
		res, err := hill.Evaluate(ref.X, ref.Y, p, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.RSquared).To(BeNumerically("<", 0))
	})

	It("rejects a non-positive domain", func() {
		_, err := hill.Evaluate([]float64{0, 1, 2}, []float64{0, 1, 2}, hill.Params{NH: 1, EC50: 1}, 5)
		Expect(err).To(MatchError(hill.ErrDomain))
	})

	It("rejects a single resample point", func() {
		_, err := hill.Evaluate(ref.X, ref.Y, hill.Params{NH: 1, EC50: 1}, 1)
		Expect(err).To(MatchError(hill.ErrResolution))
	})

	It("rejects mismatched samples", func() {
		_, err := hill.Evaluate([]float64{1, 2}, []float64{1}, hill.Params{}, 5)
		Expect(err).To(MatchError(hill.ErrLengthMismatch))
	})
})
