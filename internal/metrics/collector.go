package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/orbitsim/internal/sim"
)

// Collector exports simulation progress as prometheus metrics.
type Collector struct {
	g float64

	ticksTotal   *prometheus.CounterVec
	simTime      *prometheus.GaugeVec
	totalEnergy  *prometheus.GaugeVec
	bodySpeed    *prometheus.GaugeVec
	tickDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer, G float64) *Collector {
	c := &Collector{
		g: G,
		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_ticks_total",
				Help: "Total number of simulation ticks",
			},
			[]string{"scenario"},
		),
		simTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_sim_time_seconds",
				Help: "Simulated time elapsed",
			},
			[]string{"scenario"},
		),
		totalEnergy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_total_energy_joules",
				Help: "Kinetic plus gravitational potential energy",
			},
			[]string{"scenario"},
		),
		bodySpeed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_body_speed_meters_per_second",
				Help: "Current speed of each body",
			},
			[]string{"scenario", "body"},
		),
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orbitsim_tick_duration_seconds",
				Help:    "Wall time spent computing one tick",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"scenario"},
		),
	}

	reg.MustRegister(c.ticksTotal, c.simTime, c.totalEnergy, c.bodySpeed, c.tickDuration)
	return c
}

func (c *Collector) OnTick(s sim.Snapshot) {
	c.ticksTotal.WithLabelValues(s.Name).Inc()
	c.simTime.WithLabelValues(s.Name).Set(s.Time)
	c.totalEnergy.WithLabelValues(s.Name).Set(Total(s, c.g))
	for _, b := range s.Bodies {
		c.bodySpeed.WithLabelValues(s.Name, b.Name).Set(b.Velocity.Magnitude().Float())
	}
}

// ObserveTick records how long one tick took to compute.
func (c *Collector) ObserveTick(scenario string, d time.Duration) {
	c.tickDuration.WithLabelValues(scenario).Observe(d.Seconds())
}
