package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "latecomer_scans_total",
	Help: "Arrival scans recorded, by assigned status.",
}, []string{"status"})
