package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/milk9111/actorsim/anim"
	"github.com/milk9111/actorsim/asset"
	"github.com/milk9111/actorsim/logger"
	"github.com/milk9111/actorsim/prefabs"
	"github.com/sirupsen/logrus"
)

func main() {
	manifest := flag.String("manifest", "anims/core.yaml", "animation manifest prefab")
	out := flag.String("out", "anims.res", "resource file to write")
	list := flag.Bool("list", false, "list the animations already packed in -out and exit")
	flag.Parse()

	logger.Init("", "")

	var err error
	if *list {
		err = listPack(*out)
	} else {
		err = pack(*manifest, *out)
	}
	if err != nil {
		logger.Log.WithError(err).Fatal("animpack")
	}
}

func pack(manifest, out string) error {
	m, err := prefabs.LoadAnimationManifest(manifest)
	if err != nil {
		return err
	}
	buffers, err := asset.EncodeManifest(m, func(name string) ([]byte, error) {
		if data, err := os.ReadFile(name); err == nil {
			return data, nil
		}
		return prefabs.Load(name)
	})
	if err != nil {
		return err
	}
	if err := asset.PackAnimations(out, buffers); err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"manifest": manifest,
		"out":      out,
		"indices":  slices.Sorted(maps.Keys(buffers)),
	}).Info("animations packed")
	return nil
}

func listPack(path string) error {
	src, err := asset.OpenBolt(path)
	if err != nil {
		return err
	}
	defer src.Close()

	indices, err := src.Indices()
	if err != nil {
		return err
	}
	for _, idx := range indices {
		buf, err := src.Animation(idx)
		if err != nil {
			return err
		}
		a, err := anim.Decode(buf)
		if err != nil {
			return fmt.Errorf("animation %d: %w", idx, err)
		}
		fmt.Printf("%4d  keyframes %-3d bones %-3d loop %d\n", idx, a.KeyframeCount(), a.BoneCount, a.LoopFrame)
	}
	return nil
}
