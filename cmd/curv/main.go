// Command curv is the reference command-line front-end (spec.md §6 "CLI
// (reference front-end curv)"): `--version`, `-o <format>` (repeatable, to
// export several formats from one compile), `-O <k>=<v>` rendering
// options, and `-x <expr>` to evaluate a literal expression instead of
// compiling a file. spec.md explicitly leaves the exact flag grammar out
// of scope, so this follows the teacher's own `main.go` idiom
// (`flag.String`/`flag.Bool`, errors to stderr, `os.Exit` 0/1/2) rather
// than any specific upstream tool's flag names.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/program"
	"github.com/curv-lang/curv/pkg/sc"
	"github.com/curv-lang/curv/pkg/shape"
	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/system"
	"github.com/curv-lang/curv/pkg/value"
)

const version = "curv 0.0.0 (Go reimplementation)"

// formatList collects repeated `-o <format>` flags (flag.Value, matching
// the teacher's plain flag.String/Bool flags generalized to a multi-value
// one the stdlib flag package doesn't provide out of the box).
type formatList []string

func (f *formatList) String() string { return strings.Join(*f, ",") }
func (f *formatList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// optionMap collects repeated `-O k=v` rendering options (spec.md §6:
// "aa, taa, fdur, bg, ray_max_iter, ray_max_depth, shader").
type optionMap map[string]string

func (m optionMap) String() string {
	var parts []string
	for k, v := range m {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (m optionMap) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("-O expects k=v, got %q", v)
	}
	m[k] = val
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("curv", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	showVersion := fs.Bool("version", false, "print version and exit")
	expr := fs.String("x", "", "evaluate a literal expression instead of compiling a file")
	var formats formatList
	fs.Var(&formats, "o", "export format (glsl, cpp, value); repeatable")
	options := optionMap{}
	fs.Var(options, "O", "rendering option k=v (aa, taa, fdur, bg, ray_max_iter, ray_max_depth, shader)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	sys := system.New()
	defer sys.Cleanup()

	var src *source.Source
	var err error
	switch {
	case *expr != "":
		src = source.FromString("-x", *expr, source.KindCurv)
	case fs.NArg() == 1:
		src, err = source.FromFile(fs.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "usage: curv [-o format]... [-O k=v]... (file.curv | -x expr)")
		return 2
	}
	if err != nil {
		sys.ReportError(err)
		return 1
	}

	prog := program.New(sys, nil)
	if err := prog.Compile(src); err != nil {
		sys.ReportError(err)
		return 1
	}

	v, err := prog.Eval()
	if err != nil {
		sys.ReportError(err)
		return 1
	}

	if len(formats) == 0 {
		fmt.Println(v.Print())
		return 0
	}

	s, isShape, shapeErr := shape.Recognise(v, location.Location{}, nil)
	if shapeErr != nil {
		sys.ReportError(shapeErr)
		return 1
	}

	if err := exportAll(s, isShape, v, formats); err != nil {
		sys.ReportError(err)
		return 1
	}
	return 0
}

// exportAll renders every requested format concurrently (spec.md §6's
// CLI is silent on concurrency, but compiling the same shape to GLSL and
// C++ is exactly the independent, CPU-only fan-out errgroup exists for).
func exportAll(s *shape.Shape, isShape bool, v value.Value, formats []string) error {
	var g errgroup.Group
	results := make([]string, len(formats))
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			out, err := exportOne(s, isShape, v, f)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, f := range formats {
		fmt.Printf("-- %s --\n%s\n", f, results[i])
	}
	return nil
}

func exportOne(s *shape.Shape, isShape bool, v value.Value, format string) (string, error) {
	switch format {
	case "value":
		return v.Print(), nil
	case "glsl":
		if !isShape {
			return "", fmt.Errorf("-o glsl requires a shape value")
		}
		out, err := sc.Compile(s, sc.GLSL)
		if err != nil {
			return "", err
		}
		return out.DistFunc + "\n" + out.ColourFunc, nil
	case "cpp":
		if !isShape {
			return "", fmt.Errorf("-o cpp requires a shape value")
		}
		out, err := sc.Compile(s, sc.CPP)
		if err != nil {
			return "", err
		}
		return out.DistFunc + "\n" + out.ColourFunc, nil
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}
