package main

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"YAML config path"`
	DB      string `long:"db" description:"Database file (overrides config)"`
	Bucket  string `short:"b" long:"bucket" description:"Bucket (overrides config)"`
	Verbose bool   `short:"v" long:"verbose" description:"Log debug messages"`

	Keys    *KeysCmd    `command:"keys"    description:"List document keys in the bucket"`
	Buckets *BucketsCmd `command:"buckets" description:"List buckets"`
	Dump    *DumpCmd    `command:"dump"    description:"Print documents in the bucket"`
	Stats   *StatsCmd   `command:"stats"   description:"Show bucket statistics"`
	Rm      *RmCmd      `command:"rm"      description:"Delete documents, or the whole bucket"`
	Demo    *DemoCmd    `command:"demo"    description:"Save sample containers and read them back"`
}

// Init instantiates the sub-commands so that they share the environment.
func (o *Options) Init(e *env) {
	o.Keys = &KeysCmd{env: e}
	o.Buckets = &BucketsCmd{env: e}
	o.Dump = &DumpCmd{env: e}
	o.Stats = &StatsCmd{env: e}
	o.Rm = &RmCmd{env: e}
	o.Demo = &DemoCmd{env: e}
}
