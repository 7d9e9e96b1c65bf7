package hill_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hillfit/internal/hill"
)

var _ = Describe("Params", func() {
	p := hill.Params{Top: 100, Bottom: 10, EC50: 5, NH: 2}

	It("returns bottom at zero dose", func() {
		Expect(p.Eval(0)).To(Equal(10.0))
	})

	It("is halfway between bottom and top at EC50", func() {
		Expect(p.Eval(5)).To(BeNumerically("~", 55, 1e-12))
	})

	It("matches the textbook form of the equation", func() {
		for _, x := range []float64{0.5, 1, 3, 7.5, 40} {
			direct := p.Bottom + (p.Top-p.Bottom)*math.Pow(x, p.NH)/(math.Pow(p.EC50, p.NH)+math.Pow(x, p.NH))
			Expect(p.Eval(x)).To(BeNumerically("~", direct, 1e-9))
		}
	})

	It("is undefined for negative doses", func() {
		Expect(math.IsNaN(p.Eval(-1))).To(BeTrue())
		Expect(math.IsNaN(p.Eval(math.NaN()))).To(BeTrue())
	})

	It("stays finite for steep curves", func() {
		steep := hill.Params{Top: 1, Bottom: 0, EC50: 1000, NH: 100}
		Expect(steep.Eval(1)).To(BeNumerically("~", 0, 1e-12))
		Expect(steep.Eval(1e6)).To(BeNumerically("~", 1, 1e-12))
	})

	DescribeTable("is monotonic in x",
		func(params hill.Params, increasing bool) {
			xs, err := hill.LogSpace(0.01, 1000, 200)
			Expect(err).NotTo(HaveOccurred())
			ys := params.EvalAll(xs)
			for i := 1; i < len(ys); i++ {
				if increasing {
					Expect(ys[i]).To(BeNumerically(">=", ys[i-1]))
				} else {
					Expect(ys[i]).To(BeNumerically("<=", ys[i-1]))
				}
			}
		},
		Entry("rising", hill.Params{Top: 100, Bottom: 0, EC50: 3, NH: 1.5}, true),
		Entry("falling", hill.Params{Top: 0, Bottom: 100, EC50: 3, NH: 1.5}, false),
		Entry("shallow", hill.Params{Top: 1, Bottom: -1, EC50: 50, NH: 0.01}, true),
	)

	It("renders the equation with significant figures", func() {
		q := hill.Params{Top: 100.123456, Bottom: -1.5, EC50: 13.0987654, NH: 2}
		Expect(q.Equation(4)).To(Equal("-1.5 + (100.1--1.5)*x^2 / (13.1^2 + x^2)"))
		Expect(q.Equation(0)).To(ContainSubstring("100.123"))
	})

	It("checks bounds containment", func() {
		b := hill.Bounds{
			Lower: hill.Params{Top: 0, Bottom: -1, EC50: 1, NH: 0.01},
			Upper: hill.Params{Top: 10, Bottom: 1, EC50: 100, NH: 100},
		}
		Expect(b.Contains(hill.Params{Top: 5, Bottom: 0, EC50: 10, NH: 1})).To(BeTrue())
		Expect(b.Contains(hill.Params{Top: 5, Bottom: 0, EC50: 0.5, NH: 1})).To(BeFalse())
		Expect(b.Contains(b.Lower)).To(BeTrue())
	})
})
