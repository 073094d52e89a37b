package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cg-scene-renderer/internal/curve"
)

func main() {
	kind := flag.String("kind", string(curve.KindCatmullRom), "Curve kind: catmull-rom, bezier, hermite, hermite-bezier")
	points := flag.String("points", "", "Comma-separated control point coordinates")
	dims := flag.Int("dims", 2, "Coordinates per control point (2 or 3)")
	n := flag.Int("n", 100, "Number of samples")
	truncate := flag.Bool("truncate", false, "Drop samples that do not divide evenly among segments")
	output := flag.String("o", "", "Output CSV file (default: stdout)")
	flag.Parse()

	c, err := evaluate(curve.Kind(*kind), *points, *dims, *n, *truncate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writeCSV(out, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("point coordinate %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func evaluate(kind curve.Kind, points string, dims, n int, truncate bool) (curve.Curve, error) {
	flat, err := parseFloats(points)
	if err != nil {
		return nil, err
	}
	var pts []curve.Point
	switch dims {
	case 2:
		pts, err = curve.Points2D(flat...)
	case 3:
		pts, err = curve.Points3D(flat...)
	default:
		return nil, fmt.Errorf("dims must be 2 or 3, got %d", dims)
	}
	if err != nil {
		return nil, err
	}
	var opts []curve.Option
	if truncate {
		opts = append(opts, curve.Truncate())
	}
	return curve.Evaluate(kind, pts, n, opts...)
}

func writeCSV(w io.Writer, c curve.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"i", "x", "y", "z"}); err != nil {
		return err
	}
	for i, p := range c {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p[0], 'g', -1, 64),
			strconv.FormatFloat(p[1], 'g', -1, 64),
			strconv.FormatFloat(p[2], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
