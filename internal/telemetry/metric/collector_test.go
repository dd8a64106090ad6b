package metric

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_Describe(t *testing.T) {
	c := NewCollector("mock_responses", "Canned responses loaded.", func() float64 { return 0 })

	ch := make(chan *prometheus.Desc, 1)
	c.Describe(ch)
	desc := <-ch
	if !strings.Contains(desc.String(), "hllrcon_mock_responses") {
		t.Errorf("desc = %s, want hllrcon_mock_responses", desc)
	}
}

func TestCollector_SamplesAtScrape(t *testing.T) {
	var n atomic.Int64
	n.Store(3)

	r := NewRegistry()
	r.MustRegister(NewCollector("mock_responses", "Canned responses loaded.", func() float64 {
		return float64(n.Load())
	}))

	if !strings.Contains(scrape(t, r.Handler()), "hllrcon_mock_responses 3") {
		t.Error("expected hllrcon_mock_responses 3")
	}

	n.Store(5)
	if !strings.Contains(scrape(t, r.Handler()), "hllrcon_mock_responses 5") {
		t.Error("expected hllrcon_mock_responses 5 after change")
	}
}
