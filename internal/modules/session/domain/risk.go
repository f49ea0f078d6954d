package domain

const (
	AutoplayRisk   = 30.0
	BoredomWeight  = 40.0
	MaxRisk        = 100.0
	RiskBufferSize = 20
)

var categoryBaseRisk = map[Category]float64{
	CategorySocial:    30,
	CategoryVideo:     25,
	CategoryNews:      20,
	CategoryMessaging: 10,
	CategoryWork:      5,
}

// Risk scores a session configuration in [0,100].
func Risk(category Category, autoplay bool, boredom int) float64 {
	risk := categoryBaseRisk[category]
	if autoplay {
		risk += AutoplayRisk
	}
	risk += float64(boredom) / 100 * BoredomWeight
	return clamp(risk, 0, MaxRisk)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RiskSamples keeps the most recent RiskBufferSize samples, oldest first.
type RiskSamples struct {
	buf  [RiskBufferSize]float64
	head int
	n    int
}

func (r *RiskSamples) Push(v float64) {
	r.buf[(r.head+r.n)%RiskBufferSize] = v
	if r.n < RiskBufferSize {
		r.n++
		return
	}
	r.head = (r.head + 1) % RiskBufferSize
}

func (r *RiskSamples) Reset() {
	r.head = 0
	r.n = 0
}

func (r *RiskSamples) Len() int { return r.n }

func (r *RiskSamples) Values() []float64 {
	out := make([]float64, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.head+i)%RiskBufferSize]
	}
	return out
}
