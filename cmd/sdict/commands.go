package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/andreyvit/sdict"
	"github.com/andreyvit/sdict/fields"
	"github.com/andreyvit/sdict/geom"
	"github.com/davecgh/go-spew/spew"
)

// KeysCmd prints document keys in the bucket.
type KeysCmd struct {
	Prefix string `short:"p" long:"prefix" description:"Only keys starting with this prefix"`

	env *env
}

func (c *KeysCmd) Execute(_ []string) error {
	store, cfg, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	keys, err := store.KeysWithPrefix(cfg.Bucket, c.Prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(c.env.stdout, k)
	}
	return nil
}

type BucketsCmd struct {
	env *env
}

func (c *BucketsCmd) Execute(_ []string) error {
	store, _, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.Buckets()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(c.env.stdout, name)
	}
	return nil
}

// DumpCmd prints the given documents, or the whole bucket when no keys are
// given.
type DumpCmd struct {
	JSON bool `long:"json" description:"Print field sets as JSON"`
	Spew bool `long:"spew" description:"Print field sets with go-spew"`

	env *env
}

func (c *DumpCmd) Execute(args []string) error {
	if c.JSON && c.Spew {
		return errors.New("--json and --spew are mutually exclusive")
	}
	store, cfg, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 && !c.JSON && !c.Spew {
		out, err := store.Dump(cfg.Bucket)
		if err != nil {
			return err
		}
		fmt.Fprint(c.env.stdout, out)
		return nil
	}

	keys := args
	if len(keys) == 0 {
		keys, err = store.Keys(cfg.Bucket)
		if err != nil {
			return err
		}
	}
	for _, key := range keys {
		fs, err := store.LoadFields(cfg.Bucket, key)
		if err != nil {
			return err
		}
		c.print(key, fs)
	}
	return nil
}

func (c *DumpCmd) print(key string, fs *fields.Set) {
	w := c.env.stdout
	switch {
	case c.JSON:
		raw, err := json.MarshalIndent(fs, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "%s: ** %v\n", key, err)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", key, raw)
	case c.Spew:
		fmt.Fprintf(w, "%s:\n", key)
		spew.Fdump(w, fs)
	default:
		fmt.Fprintf(w, "%s:\n%s", key, fields.Dump(fs))
	}
}

type StatsCmd struct {
	env *env
}

func (c *StatsCmd) Execute(_ []string) error {
	store, cfg, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.Stats(cfg.Bucket)
	if err != nil {
		return err
	}
	size, err := store.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.env.stdout, "%s: docs = %d, data_size = %d, data_alloc = %d, db_size = %d\n", cfg.Bucket, s.Docs, s.DataSize, s.DataAlloc, size)
	return nil
}

// RmCmd deletes the given documents, or the whole bucket with --all.
type RmCmd struct {
	All bool `long:"all" description:"Drop the whole bucket"`

	env *env
}

func (c *RmCmd) Execute(args []string) error {
	if c.All == (len(args) > 0) {
		return errors.New("pass either document keys or --all")
	}
	store, cfg, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	if c.All {
		return store.Drop(cfg.Bucket)
	}
	for _, key := range args {
		if err := store.Delete(cfg.Bucket, key); err != nil {
			return err
		}
	}
	return nil
}

// DemoCmd saves a palette (Map of colors) and a set of paths (BoxedMap of
// vectors), then loads them back and prints what came out.
type DemoCmd struct {
	env *env
}

func (c *DemoCmd) Execute(_ []string) error {
	store, cfg, err := c.env.open()
	if err != nil {
		return err
	}
	defer store.Close()

	palette := sdict.FromMap(map[string]geom.Color{
		"white": geom.White,
		"black": geom.Black,
		"clear": geom.Clear,
	})
	paths := sdict.NewBoxedMap[string, geom.Vector3]()
	if err := paths.AddValues("patrol", []geom.Vector3{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 10}}); err != nil {
		return err
	}
	if err := paths.Add("spawn", geom.Vector3{X: 1, Y: 2, Z: 3}); err != nil {
		return err
	}

	if _, err := store.Save(cfg.Bucket, "palette", palette); err != nil {
		return err
	}
	if _, err := store.Save(cfg.Bucket, "paths", paths); err != nil {
		return err
	}

	loadedPalette := sdict.NewMap[string, geom.Color]()
	if _, err := store.Load(cfg.Bucket, "palette", loadedPalette); err != nil {
		return err
	}
	loadedPaths := sdict.NewBoxedMap[string, geom.Vector3]()
	if _, err := store.Load(cfg.Bucket, "paths", loadedPaths); err != nil {
		return err
	}

	w := c.env.stdout
	names := loadedPalette.Keys()
	slices.Sort(names)
	for _, name := range names {
		col, _ := loadedPalette.Get(name)
		fmt.Fprintf(w, "palette %s = %v\n", name, col)
	}
	names = loadedPaths.Keys()
	slices.Sort(names)
	for _, name := range names {
		vs, _ := loadedPaths.GetValues(name)
		fmt.Fprintf(w, "paths %s = %v\n", name, vs)
	}
	return nil
}
