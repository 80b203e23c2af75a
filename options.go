package xlrw

import (
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Options holds configuration shared by readers, writers and rewriters.
type Options struct {
	sheet          string
	password       string
	formulaRebuild bool
	windowSize     int
	styleSource    *excelize.File
	styleFile      string
	logger         *logrus.Logger
}

func defaultOptions() *Options {
	return &Options{
		windowSize: 100,
		logger:     logrus.StandardLogger(),
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.windowSize < 1 {
		o.windowSize = 1
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	return o
}

// Option configures a reader, writer or rewriter.
type Option func(*Options)

// WithSheet selects the sheet to work on (default: the active sheet when
// reading, "Sheet1" when writing).
func WithSheet(name string) Option {
	return func(o *Options) { o.sheet = name }
}

// WithPassword sets the password used to open an encrypted workbook.
func WithPassword(password string) Option {
	return func(o *Options) { o.password = password }
}

// WithFormulaRebuild enables rewriting row numbers in written formulas to the
// row being written. Only single-row formulas survive the rewrite.
func WithFormulaRebuild(enabled bool) Option {
	return func(o *Options) { o.formulaRebuild = enabled }
}

// WithWindowSize sets how many rows a streaming writer keeps in memory (default: 100).
func WithWindowSize(rows int) Option {
	return func(o *Options) { o.windowSize = rows }
}

// WithStyleSource sets an open workbook as the style library for Cell.SIndex.
func WithStyleSource(f *excelize.File) Option {
	return func(o *Options) { o.styleSource = f }
}

// WithStyleFile sets an .xlsx file as the style library. It is opened on
// first use and closed with the writer.
func WithStyleFile(path string) Option {
	return func(o *Options) { o.styleFile = path }
}

// WithLogger sets the logger (default: logrus.StandardLogger()).
func WithLogger(logger *logrus.Logger) Option {
	return func(o *Options) { o.logger = logger }
}
