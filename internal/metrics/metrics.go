// 분석 호출 Prometheus 지표 정의
//
// 노출 지표:
//   - analyst_invocations_total{kind, status}: 분류 결과/성공 여부별 호출 수
//   - analyst_completion_duration_ms{provider, status}: completion 호출 소요 시간

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder - nil이어도 안전하게 호출 가능 (지표 비활성화)
type Recorder struct {
	invocations        *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
}

// NewRecorder - 지표를 생성하고 reg에 등록
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyst_invocations_total",
				Help: "Number of analysis invocations by request kind and result status",
			},
			[]string{"kind", "status"},
		),
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analyst_completion_duration_ms",
				Help:    "Duration of completion service calls in milliseconds",
				Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 25000},
			},
			[]string{"provider", "status"},
		),
	}

	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.invocations, r.completionDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveInvocation - kind가 비어있으면 "unknown"으로 기록
func (r *Recorder) ObserveInvocation(kind, status string) {
	if r == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	r.invocations.WithLabelValues(kind, status).Inc()
}

func (r *Recorder) ObserveCompletion(provider, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.completionDuration.WithLabelValues(provider, status).Observe(float64(elapsed.Milliseconds()))
}
