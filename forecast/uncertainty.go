package forecast

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// trendVariance is the variance of the trend deviation at scaled time t. Beyond the end of
// history (t = 1) new changepoints are assumed to arrive at the historical rate, one per
// 1/len(changepoints) of scaled time, with Laplace distributed slope changes whose scale is the
// mean absolute fitted change. For a deviation Σδ·(τ−u) with u uniform on [0, τ] this compound
// Poisson process has variance rate·2b²·τ³/3. The result grows with τ, so interval width never
// shrinks with forecast distance.
func (m *Model) trendVariance(t float64) float64 {
	tau := t - 1
	if tau <= 0 || m.cpScale == 0 {
		return 0
	}
	rate := float64(len(m.design.changepoints))
	return rate * 2 * m.cpScale * m.cpScale * tau * tau * tau / 3
}

// intervalZ returns the standard normal quantile bounding a central interval of the given
// width.
func intervalZ(width float64) float64 {
	return distuv.UnitNormal.Quantile(0.5 + width/2)
}
