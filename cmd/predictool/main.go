package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/vearutop/predictedit"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "branch":
		if err := runBranch(os.Args[2:]); err != nil {
			fail(err)
		}
	case "apply":
		if err := runApply(os.Args[2:]); err != nil {
			fail(err)
		}
	case "score":
		if err := runScore(os.Args[2:]); err != nil {
			fail(err)
		}
	case "cube":
		if err := runCube(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: predictool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  branch -in image.jpg -history history.json -index 1 -out chosen.png [-future-out future.png] [-luts dir] [-size 256] [-resampler bilinear] [-no-saturation] [-v]")
	fmt.Fprintln(os.Stderr, "  apply  -in image.jpg -lut look.cube -out output.png [-strength 1]")
	fmt.Fprintln(os.Stderr, "  score  -in image.jpg [-size 256]")
	fmt.Fprintln(os.Stderr, "  cube   -kind identity|warm|hue -out look.cube [-size 17] [-degrees 30]")
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	predictedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func resampler(name string) (predictedit.Resampler, error) {
	if name == "nfnt" {
		return predictedit.NfntResampler{Filter: resize.Lanczos3}, nil
	}
	interp, err := predictedit.ParseInterpolation(name)
	if err != nil {
		return nil, err
	}
	return predictedit.KernelResampler{Interpolation: interp}, nil
}

func runBranch(args []string) error {
	fs := flag.NewFlagSet("branch", flag.ContinueOnError)
	inPath := fs.String("in", "", "base image")
	historyPath := fs.String("history", "", "history json, an array of entries")
	index := fs.Int("index", -1, "branch index, defaults to the current entry")
	outPath := fs.String("out", "", "chosen image output")
	futureOut := fs.String("future-out", "", "user future image output")
	lutDir := fs.String("luts", "", "directory with <id>.cube files")
	size := fs.Int("size", predictedit.DefaultLowResMaxSize, "low resolution longer edge")
	sampler := fs.String("resampler", "bilinear", "nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3 or nfnt")
	noSat := fs.Bool("no-saturation", false, "do not search the saturation axis")
	verbose := fs.Bool("v", false, "debug logging")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *historyPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	setupLogger(*verbose)

	base, err := loadImage(*inPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Clean(*historyPath))
	if err != nil {
		return err
	}
	var h predictedit.History
	if err := json.Unmarshal(data, &h); err != nil {
		return fmt.Errorf("parse history: %w", err)
	}
	if len(h) > 0 {
		h[0].State.BaseImage = base
	}
	i := *index
	if i < 0 {
		i = h.Current()
	}

	rs, err := resampler(*sampler)
	if err != nil {
		return err
	}

	luts := predictedit.NewLutCache()
	if *lutDir != "" {
		if err := preloadDir(context.Background(), luts, *lutDir, h); err != nil {
			return err
		}
	}

	p := predictedit.NewPredictor(func(o *predictedit.Options) {
		o.LowResMaxSize = *size
		o.Luts = luts
		o.Resampler = rs
		o.SearchSaturation = !*noSat
	})

	res, err := p.RunPredictiveBranch(h, i, base)
	if err != nil {
		return err
	}
	if err := saveImage(*outPath, res.ChosenImage); err != nil {
		return err
	}
	if *futureOut != "" {
		if err := saveImage(*futureOut, res.UserFutureImage); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// preloadDir loads every LUT id referenced by the history from dir.
func preloadDir(ctx context.Context, luts *predictedit.LutCache, dir string, h predictedit.History) error {
	seen := map[string]bool{}
	var ids []string
	for _, e := range h {
		if id := e.State.SelectedLUT; id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		if e.Edit != nil && e.Edit.LutID != "" && !seen[e.Edit.LutID] {
			seen[e.Edit.LutID] = true
			ids = append(ids, e.Edit.LutID)
		}
	}
	_, err := luts.PreloadAll(ctx, ids, func(_ context.Context, id string) (io.ReadCloser, error) {
		if strings.ContainsAny(id, `/\`) {
			return nil, fmt.Errorf("invalid LUT id %q", id)
		}
		return os.Open(filepath.Join(dir, id+".cube"))
	})
	return err
}

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	lutPath := fs.String("lut", "", ".cube file")
	outPath := fs.String("out", "", "output image")
	strength := fs.Float64("strength", 1, "blend strength in (0, 1]")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *lutPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	setupLogger(false)

	img, err := loadImage(*inPath)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Clean(*lutPath))
	if err != nil {
		return err
	}
	defer f.Close()
	lut, err := predictedit.ReadLut(f)
	if err != nil {
		return err
	}
	return saveImage(*outPath, predictedit.ApplyLut(img, lut, *strength))
}

func runScore(args []string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	inPath := fs.String("in", "", "input image")
	size := fs.Int("size", predictedit.DefaultLowResMaxSize, "low resolution longer edge")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	img, err := loadImage(*inPath)
	if err != nil {
		return err
	}
	p := predictedit.NewPredictor(func(o *predictedit.Options) {
		o.LowResMaxSize = *size
	})
	score, err := p.Score(img)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%.4f\n", score)
	return nil
}

func runCube(args []string) error {
	fs := flag.NewFlagSet("cube", flag.ContinueOnError)
	kind := fs.String("kind", "identity", "identity, warm or hue")
	outPath := fs.String("out", "", "output .cube file")
	size := fs.Int("size", 17, "lattice size")
	degrees := fs.Float64("degrees", 30, "hue rotation for -kind hue")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" {
		return errors.New("missing required arguments")
	}

	var (
		lut   *predictedit.Lut
		title string
	)
	switch *kind {
	case "identity":
		lut, title = predictedit.IdentityLut(*size), "Identity"
	case "warm":
		lut, title = predictedit.CinematicWarmLut(*size), "Cinematic Warm"
	case "hue":
		lut, title = predictedit.HueRotateLut(*size, *degrees), fmt.Sprintf("Hue %+.0f", *degrees)
	default:
		return fmt.Errorf("unknown kind %q", *kind)
	}

	f, err := os.Create(filepath.Clean(*outPath))
	if err != nil {
		return err
	}
	if err := lut.WriteCube(f, title); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
