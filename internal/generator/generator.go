package generator

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode is the permission given to generated files when Options
// does not specify one.
const DefaultFileMode os.FileMode = 0644

var (
	// ErrMissingArguments is returned when the input or output path is empty.
	ErrMissingArguments = errors.New("insufficient arguments")
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file does not exist")
	// ErrOutputDirNotFound is returned when the directory that should hold
	// the output file does not exist. The generator never creates it.
	ErrOutputDirNotFound = errors.New("output directory does not exist")
)

// Request names the input blob, the file to generate and the symbol prefix
// used for both generated declarations.
type Request struct {
	// InputPath is the binary file to embed.
	InputPath string
	// OutputPath is the C++ source file to create or overwrite.
	OutputPath string
	// Prefix names the array (<Prefix>) and its length (<Prefix>_size).
	// It is emitted verbatim.
	Prefix string
}

// Options contains optional settings for the generation process.
type Options struct {
	// FileMode is the permission of the generated file. Zero keeps the mode
	// of an existing output file, or uses DefaultFileMode for a new one.
	FileMode os.FileMode
}

// Result describes a successful generation.
type Result struct {
	OutputPath string
	// Size is the number of bytes embedded.
	Size int
	// Lines is the number of array body lines written.
	Lines int
}

// Generate validates the request, reads the whole input file, renders the
// byte-array declaration and writes it to the output path.
//
// Parameters:
//   - fs: The filesystem to read from and write to.
//   - req: The input, output and prefix.
//   - opts: Additional generation options.
//
// Returns:
//   - Result: What was written.
//   - error: A validation error (see ErrInputNotFound and friends) or a
//     wrapped I/O error.
func Generate(fs afero.Fs, req Request, opts Options) (Result, error) {
	if err := Validate(fs, req); err != nil {
		return Result{}, err
	}

	data, err := afero.ReadFile(fs, req.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", req.InputPath, err)
	}
	slog.Debug("read input", "path", req.InputPath, "bytes", len(data))

	decl := NewDeclaration(req.Prefix, data)

	var buf bytes.Buffer
	if err := decl.Render(&buf); err != nil {
		return Result{}, fmt.Errorf("failed to render %s: %w", req.OutputPath, err)
	}

	target, err := resolveTarget(fs, req.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve %s: %w", req.OutputPath, err)
	}

	mode := opts.FileMode
	if mode == 0 {
		if mode, err = targetMode(fs, target); err != nil {
			return Result{}, fmt.Errorf("failed to stat %s: %w", target, err)
		}
	}
	if err := writeFileAtomic(fs, target, buf.Bytes(), mode); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", req.OutputPath, err)
	}
	slog.Debug("wrote output", "path", req.OutputPath, "lines", len(decl.Rows))

	return Result{
		OutputPath: req.OutputPath,
		Size:       decl.Size,
		Lines:      len(decl.Rows),
	}, nil
}

// Validate checks that the input file exists and that the output directory
// exists. It performs no reads or writes.
func Validate(fs afero.Fs, req Request) error {
	if req.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", ErrMissingArguments)
	}
	if req.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrMissingArguments)
	}

	exists, err := afero.Exists(fs, req.InputPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", req.InputPath, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrInputNotFound, req.InputPath)
	}

	dir := OutputDir(req.OutputPath)
	isDir, err := afero.IsDir(fs, dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !isDir {
		return fmt.Errorf("%w: %s", ErrOutputDirNotFound, dir)
	}
	return nil
}

// OutputDir returns the directory the output file is written into.
// A bare file name resolves to the working directory.
func OutputDir(outputPath string) string {
	return filepath.Dir(outputPath)
}
