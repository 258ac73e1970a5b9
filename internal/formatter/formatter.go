// Package formatter orchestrates the per-cell formatting pass: locate
// SQL regions, run each through the formatting engine with template
// interpolations masked, and splice the results back into the cell.
package formatter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sparkfmt/sparkfmt/internal/config"
	"github.com/sparkfmt/sparkfmt/pkg/region"
)

// Engine is the external SQL formatting collaborator. It returns one
// normalized string per statement, or an error when the input does not
// parse. The pipeline always passes identical read and write dialects.
type Engine interface {
	Format(sql, readDialect, writeDialect string, pretty bool) ([]string, error)
}

// statementSeparator joins multi-statement results with a blank line.
const statementSeparator = "\n\n"

// Pipeline runs the locate/format/splice pass for one cell at a time.
// Configuration is explicit: the pipeline owns a copy for its lifetime
// and there is no process-wide mutable state.
type Pipeline struct {
	cfg     config.Config
	engine  Engine
	locator *region.Locator
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New validates cfg and builds a pipeline around the given engine.
func New(cfg config.Config, engine Engine, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, errors.New("formatter: engine is required")
	}
	p := &Pipeline{
		cfg:     cfg,
		engine:  engine,
		locator: region.NewLocatorForCall(cfg.Call),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		p.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	if !cfg.KnownDialect() {
		p.logger.Warn("dialect may not be fully supported",
			"dialect", cfg.Dialect,
			"recommended", config.KnownDialects())
	}
	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// Locate returns the SQL regions of a cell without formatting them.
func (p *Pipeline) Locate(cell string) []region.Region {
	return p.locator.Locate(cell)
}

// FormatRegion formats a single region: mask interpolations if the
// string is templated, run the engine, unmask, and compare against the
// original text verbatim.
func (p *Pipeline) FormatRegion(r region.Region) region.Result {
	masked := r.SQLText
	var masks *region.MaskMap
	if r.Templated {
		masked, masks = region.Mask(r.SQLText)
		p.logger.Debug("masked interpolations", "count", masks.Len())
	}

	stmts, err := p.engine.Format(masked, p.cfg.Dialect, p.cfg.Dialect, p.cfg.Pretty)
	if err != nil {
		p.logger.Debug("engine rejected region", "start", r.Start, "error", err)
		return region.Failed(fmt.Errorf("format sql: %w", err))
	}
	if len(stmts) == 0 {
		return region.Failed(errors.New("formatter returned no statements"))
	}

	text := strings.Join(stmts, statementSeparator)
	if masks.Len() > 0 {
		text = masks.Unmask(text)
	}

	if text == r.SQLText {
		return region.Unchanged()
	}
	return region.Formatted(text)
}

// FormatCell runs the whole pass over one cell. The second return is
// false when nothing changed. A region the engine rejects keeps its
// original bytes and never aborts the pass; an unexpected panic is
// caught at this boundary and reported, leaving the cell unmodified.
func (p *Pipeline) FormatCell(cell string) (out string, changed bool) {
	out = cell
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("unexpected failure during format pass", "panic", r)
			out, changed = cell, false
		}
	}()

	regions := p.locator.Locate(cell)
	if len(regions) == 0 {
		p.logger.Debug("no sql regions found")
		return cell, false
	}
	p.logger.Debug("located sql regions", "count", len(regions))

	results := make([]region.Result, len(regions))
	for i, r := range regions {
		results[i] = p.FormatRegion(r)
	}
	return region.Splice(cell, regions, results)
}
