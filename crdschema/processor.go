package crdschema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"go.jacobcolvin.com/crdschema/structural"
)

// Sentinel errors returned by the processor.
var (
	ErrInvalidYAML         = errors.New("invalid yaml")
	ErrInvalidSchema       = errors.New("invalid schema")
	ErrInvalidOption       = errors.New("invalid option")
	ErrInvalidOpenAPI      = errors.New("invalid openapi schema")
	ErrUnsupportedDocument = errors.New("unsupported document")
	ErrReadInput           = errors.New("read input")
	ErrWriteOutput         = errors.New("write output")
)

const defaultIndent = 2

// Format is a document encoding.
type Format string

// Formats.
const (
	// FormatAuto writes documents in the format they were read in.
	FormatAuto Format = "auto"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var allFormats = []Format{FormatAuto, FormatYAML, FormatJSON}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if slices.Contains(allFormats, f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidOption, s)
}

// DetectFormat returns [FormatJSON] when data starts with a JSON object or
// array, and [FormatYAML] otherwise.
func DetectFormat(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return FormatJSON
	}

	return FormatYAML
}

// Input is a named document stream.
type Input struct {
	Name string
	Data []byte
}

// ReadInput reads an [Input] from r.
func ReadInput(name string, r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("%w: %s: %w", ErrReadInput, name, err)
	}

	return Input{Name: name, Data: data}, nil
}

// Result is a processed [Input].
type Result struct {
	Name string
	// Format is the detected format of the input.
	Format    Format
	Documents []*Document
}

// Encode writes the documents of r to w. [FormatAuto] uses the format of the
// input.
func (r *Result) Encode(w io.Writer, format Format, indent int) error {
	if format == FormatAuto || format == "" {
		format = r.Format
	}

	return Encode(w, r.Documents, format, indent)
}

// Processor completes the schemas held by CustomResourceDefinitions and bare
// schema documents.
type Processor struct {
	validate  bool
	keepGoing bool
}

// Option configures a Processor.
type Option func(*Processor)

// NewProcessor creates a Processor with the given options.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithValidate checks every completed schema with [Validate].
func WithValidate(validate bool) Option {
	return func(p *Processor) {
		p.validate = validate
	}
}

// WithKeepGoing processes every input even when some fail. The failures are
// returned together once all inputs are processed.
func WithKeepGoing(keepGoing bool) Option {
	return func(p *Processor) {
		p.keepGoing = keepGoing
	}
}

// Process decodes each input and completes every schema it holds.
//
// Results are returned for the inputs that succeeded. Without
// [WithKeepGoing], processing stops at the first failing input.
func (p *Processor) Process(ctx context.Context, inputs ...Input) ([]Result, error) {
	var (
		results []Result
		errs    *multierror.Error
	)

	for _, in := range inputs {
		err := ctx.Err()
		if err != nil {
			return results, err
		}

		res, err := p.processInput(ctx, in)
		if err != nil {
			err = fmt.Errorf("%s: %w", in.Name, err)
			if !p.keepGoing {
				return results, err
			}

			slog.DebugContext(ctx, "input failed",
				slog.String("input", in.Name),
				slog.Any("error", err),
			)

			errs = multierror.Append(errs, err)

			continue
		}

		results = append(results, res)
	}

	return results, errs.ErrorOrNil()
}

func (p *Processor) processInput(ctx context.Context, in Input) (Result, error) {
	docs, err := Decode(in.Data)
	if err != nil {
		return Result{}, err
	}

	for _, doc := range docs {
		for _, loc := range doc.Schemas() {
			err := p.processSchema(ctx, loc)
			if err != nil {
				return Result{}, fmt.Errorf("document %d: schema %s: %w", doc.Index, loc, err)
			}

			slog.DebugContext(ctx, "completed schema",
				slog.String("input", in.Name),
				slog.Int("document", doc.Index),
				slog.String("name", doc.Name),
				slog.String("version", loc.Version),
				slog.String("location", loc.String()),
			)
		}
	}

	return Result{
		Name:      in.Name,
		Format:    DetectFormat(in.Data),
		Documents: docs,
	}, nil
}

func (p *Processor) processSchema(ctx context.Context, loc *Location) error {
	err := structural.Complete(loc.Root())
	if err != nil {
		var serr *structural.Error
		if errors.As(err, &serr) {
			slog.DebugContext(ctx, "structural completion failed",
				slog.String("location", loc.String()),
				slog.String("stack", string(serr.Stack())),
			)
		}

		return err
	}

	if !p.validate {
		return nil
	}

	return Validate(ctx, loc.Schema)
}
