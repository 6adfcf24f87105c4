package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"lukas8219/bloomcheck/internal/collections"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultArraySize      = 10000
	DefaultNumHashes      = 3
	DefaultItemLength     = 2000
	DefaultDictionaryPath = "/usr/share/dict/words"
	DefaultTargetRate     = 0.01
)

type Config struct {
	ArraySize      int     `yaml:"array_size"`
	NumHashes      int     `yaml:"num_hashes"`
	ItemLength     int     `yaml:"item_length"`
	DictionaryPath string  `yaml:"dictionary_path"`
	Hash           string  `yaml:"hash"`
	Tracked        bool    `yaml:"tracked"`
	TargetRate     float64 `yaml:"target_rate"`
	Debug          bool    `yaml:"debug"`
}

func Default() Config {
	return Config{
		ArraySize:      DefaultArraySize,
		NumHashes:      DefaultNumHashes,
		ItemLength:     DefaultItemLength,
		DictionaryPath: DefaultDictionaryPath,
		Hash:           string(collections.HashFamilyMurmur3),
		TargetRate:     DefaultTargetRate,
	}
}

// Parse builds the configuration from defaults, then the YAML file named by
// --config if any, then the flags that were set explicitly.
func Parse(args []string, output io.Writer) (Config, error) {
	flags := Default()
	var configPath string

	fs := pflag.NewFlagSet("bloomcheck", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVarP(&flags.ArraySize, "array_size", "s", flags.ArraySize, "number of bits in the filter")
	fs.IntVarP(&flags.NumHashes, "num_hashes", "n", flags.NumHashes, "number of seeded hashes per item")
	fs.IntVarP(&flags.ItemLength, "item_length", "l", flags.ItemLength, "estimated number of inserted items used for the probability report")
	fs.StringVarP(&flags.DictionaryPath, "dictionary_path", "d", flags.DictionaryPath, "word list loaded into the filter, one item per line")
	fs.StringVar(&flags.Hash, "hash", flags.Hash, "hash family: murmur3 or xxh3")
	fs.BoolVar(&flags.Tracked, "tracked", flags.Tracked, "report probabilities from the filter's own insertion count instead of item_length")
	fs.Float64Var(&flags.TargetRate, "target_rate", flags.TargetRate, "false positive rate used for sizing advice")
	fs.BoolVar(&flags.Debug, "debug", flags.Debug, "enable debug logging")
	fs.StringVarP(&configPath, "config", "c", "", "optional YAML configuration file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if configPath != "" {
		fileCfg, err := LoadFile(configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "array_size":
			cfg.ArraySize = flags.ArraySize
		case "num_hashes":
			cfg.NumHashes = flags.NumHashes
		case "item_length":
			cfg.ItemLength = flags.ItemLength
		case "dictionary_path":
			cfg.DictionaryPath = flags.DictionaryPath
		case "hash":
			cfg.Hash = flags.Hash
		case "tracked":
			cfg.Tracked = flags.Tracked
		case "target_rate":
			cfg.TargetRate = flags.TargetRate
		case "debug":
			cfg.Debug = flags.Debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Join(fmt.Errorf("failed to open config %s", path), err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Join(fmt.Errorf("failed to decode config %s", path), err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.ArraySize <= 0 {
		errs = append(errs, fmt.Errorf("array_size must be positive, got %d", c.ArraySize))
	}
	if c.NumHashes <= 0 {
		errs = append(errs, fmt.Errorf("num_hashes must be positive, got %d", c.NumHashes))
	}
	if c.ItemLength < 0 {
		errs = append(errs, fmt.Errorf("item_length must not be negative, got %d", c.ItemLength))
	}
	if c.DictionaryPath == "" {
		errs = append(errs, errors.New("dictionary_path must be set"))
	}
	if _, err := collections.FamilyByName(c.Hash); err != nil {
		errs = append(errs, err)
	}
	if c.TargetRate <= 0 || c.TargetRate >= 1 {
		errs = append(errs, fmt.Errorf("target_rate must be in (0, 1), got %v", c.TargetRate))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}
