// Package scenario reads the line-oriented scenario format and builds a
// simulation from it.
//
// A scenario looks like:
//
//	name: Earth and Moon
//	dt: 1 min
//
//	Earth:
//	  mass: 5.97219e24kg
//	  radius: 6371km
//	Moon:
//	  type: satellite
//	  mass: 7.342e22kg
//	  radius: 1737km
//	  coordinates: (384400km,0,0)
//	  velocity: (0,1.022km/s,0)
//
// Unrecognised lines are ignored and malformed property values leave the
// property as it was.
package scenario

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/units"
	"go.uber.org/zap"
)

type Option func(*parser)

// WithLogger reports ignored and malformed lines at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(p *parser) { p.log = l }
}

// WithConstants sets the constants table used for unit conversion and
// construction. The default is units.Default().
func WithConstants(c *units.Constants) Option {
	return func(p *parser) { p.consts = c }
}

type parser struct {
	log    *zap.Logger
	consts *units.Constants

	name   string
	dt     quantity.Scalar
	open   *block
	bodies []*celestial.Celestial
}

// Parse reads a scenario from r. Only read failures and bodies that cannot
// be constructed are errors.
func Parse(r io.Reader, opts ...Option) (*sim.Simulation, error) {
	p := &parser{
		log:    zap.NewNop(),
		consts: units.Default(),
		name:   sim.DefaultName,
		dt:     sim.DefaultDt,
	}
	for _, opt := range opts {
		opt(p)
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := p.line(n, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scenario: read: %w", err)
	}
	if err := p.commit(); err != nil {
		return nil, err
	}

	p.log.Debug("scenario parsed",
		zap.String("name", p.name),
		zap.Float64("dt", p.dt.Float()),
		zap.Int("bodies", len(p.bodies)),
		zap.Int("lines", n))
	return sim.New(p.name, p.dt, p.bodies, p.consts), nil
}

func ParseString(s string, opts ...Option) (*sim.Simulation, error) {
	return Parse(strings.NewReader(s), opts...)
}

func ParseFile(path string, opts ...Option) (*sim.Simulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

func (p *parser) line(n int, raw string) error {
	l := classify(raw)
	switch l.shape {
	case shapeDt:
		dt, err := timeStep(l.key, l.value)
		if err != nil {
			p.log.Debug("bad time step", zap.Int("line", n), zap.String("text", raw))
			return nil
		}
		p.dt = dt
	case shapeName:
		p.name = l.value
	case shapeHeader:
		if err := p.commit(); err != nil {
			return err
		}
		p.open = newBlock(l.key, n)
	case shapeProperty:
		if p.open == nil {
			p.log.Debug("property outside a body", zap.Int("line", n), zap.String("key", l.key))
			return nil
		}
		known, err := p.open.set(l.key, l.value, p.consts)
		switch {
		case !known:
			p.log.Debug("unknown property", zap.Int("line", n), zap.String("key", l.key))
		case err != nil:
			p.log.Debug("malformed property", zap.Int("line", n), zap.String("key", l.key),
				zap.String("value", l.value), zap.Error(err))
		}
	default:
		if strings.TrimSpace(raw) != "" {
			p.log.Debug("ignored line", zap.Int("line", n), zap.String("text", raw))
		}
	}
	return nil
}

func (p *parser) commit() error {
	if p.open == nil {
		return nil
	}
	b, err := p.open.build(p.consts)
	if err != nil {
		return err
	}
	p.bodies = append(p.bodies, b)
	p.open = nil
	return nil
}
