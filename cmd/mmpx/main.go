package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/mmpx"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
)

func main() {
	in := flag.String("in", "", "input PNG or BMP image")
	out := flag.String("out", "", "output image; .bmp writes BMP, anything else PNG")
	format := flag.String("format", "565", "packed pixel format: 555 or 565")
	passes := flag.Int("passes", 1, "number of 2x passes")
	workers := flag.Int("workers", 0, "worker goroutines; 0 uses one per CPU")
	band := flag.Int("band", mmpx.DefaultBandRows, "source rows per worker task")
	flag.Parse()

	logger.Init("", "")
	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*in, *out, *format, *passes, *workers, *band); err != nil {
		logger.Log.WithError(err).Fatal("mmpx")
	}
}

func run(in, out, formatName string, passes, workers, band int) error {
	f, err := mmpx.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if passes < 1 {
		return fmt.Errorf("passes must be at least 1, got %d", passes)
	}

	src, err := decode(in)
	if err != nil {
		return err
	}

	scaler := mmpx.NewScaler(workers, band)
	defer scaler.Close()

	start := time.Now()
	img := mmpx.FromImage(src, f)
	for range passes {
		if img, err = scaler.Upscale2x(img); err != nil {
			return err
		}
	}
	logger.Log.WithFields(logrus.Fields{
		"in":      in,
		"size":    fmt.Sprintf("%dx%d", img.Width, img.Height),
		"format":  f.String(),
		"elapsed": time.Since(start),
	}).Info("upscaled")

	return encode(out, mmpx.ToImage(img))
}

func decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func encode(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		err = bmp.Encode(file, img)
	} else {
		err = png.Encode(file, img)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
