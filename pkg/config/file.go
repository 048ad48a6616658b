package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thermoreg/thermoreg/pkg/utils/ptr"
)

var defaultFileConfig = &RawFileConfig{
	TickIntervalMS:     ptr.To(1000),
	SeedMaxTemperature: ptr.To(55),
	SeedMaxCharge:      ptr.To(100),
	ReseedSchedule:     ptr.To(""),
	AllowNonRootAccess: ptr.To(false),
}

var _ Config = &File{}

// File is a Config backed by a JSON file on disk.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// NewFile loads a file-backed config from configPath. A missing file is
// not an error: defaults are used and written back on the first Save.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps an already-parsed raw config. Used by clients
// that fetch the daemon's config over the API.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

// RawFileConfig is the JSON on-disk format. All fields are pointers so
// absent keys fall back to defaults instead of zero values.
type RawFileConfig struct {
	TickIntervalMS     *int    `json:"tickIntervalMs,omitempty"`
	SeedMaxTemperature *int    `json:"seedMaxTemperature,omitempty"`
	SeedMaxCharge      *int    `json:"seedMaxCharge,omitempty"`
	ReseedSchedule     *string `json:"reseedSchedule,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`
}

// NewRawFileConfigFromConfig snapshots a Config into its raw file form.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	return &RawFileConfig{
		TickIntervalMS:     ptr.To(int(c.TickInterval().Milliseconds())),
		SeedMaxTemperature: ptr.To(c.SeedMaxTemperature()),
		SeedMaxCharge:      ptr.To(c.SeedMaxCharge()),
		ReseedSchedule:     ptr.To(c.ReseedSchedule()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}, nil
}

func (f *File) TickInterval() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	ms := *defaultFileConfig.TickIntervalMS
	if f.c.TickIntervalMS != nil {
		ms = *f.c.TickIntervalMS
	}
	if ms <= 0 {
		ms = *defaultFileConfig.TickIntervalMS
	}

	return time.Duration(ms) * time.Millisecond
}

func (f *File) SeedMaxTemperature() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.SeedMaxTemperature != nil {
		return *f.c.SeedMaxTemperature
	}
	return *defaultFileConfig.SeedMaxTemperature
}

func (f *File) SeedMaxCharge() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.SeedMaxCharge != nil {
		return *f.c.SeedMaxCharge
	}
	return *defaultFileConfig.SeedMaxCharge
}

func (f *File) ReseedSchedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.ReseedSchedule != nil {
		return *f.c.ReseedSchedule
	}
	return *defaultFileConfig.ReseedSchedule
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) SetTickInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.TickIntervalMS = ptr.To(int(d.Milliseconds()))
}

func (f *File) SetReseedSchedule(expr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ReseedSchedule = ptr.To(expr)
}

func (f *File) SetAllowNonRootAccess(allow bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = ptr.To(allow)
}

// Load reads and parses the config file. A missing file resets the
// in-memory config to defaults.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", f.filepath).Debug("config file does not exist, using defaults")
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read config file %s", f.filepath)
	}

	c := &RawFileConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config file %s", f.filepath)
	}
	f.c = c

	return nil
}

// Save writes the config file.
func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b, err := json.MarshalIndent(f.c, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(f.filepath, b, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write config file %s", f.filepath)
	}

	return nil
}
