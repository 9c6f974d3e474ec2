package cameras

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrCameraNotFound = errors.New("camera not found")

// Record describes a registered camera. Online is the only mutable field;
// it is flipped by health events.
type Record struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	Building string `json:"building" yaml:"building"`
	Online   bool   `json:"online" yaml:"online"`
}

// Registry is the gateway's camera inventory, loaded from a YAML file.
// Updates to a single camera's online flag are atomic; cross-camera updates
// are not ordered relative to each other.
type Registry struct {
	cameras sync.Map // camera ID -> *cameraEntry
}

type cameraEntry struct {
	mu  sync.Mutex
	rec Record
}

type registryFile struct {
	Cameras []Record `yaml:"cameras"`
}

// LoadRegistry reads the camera inventory from path.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{}
	if err := r.loadFile(path); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse registry: %w", err)
	}

	seen := make(map[string]bool, len(f.Cameras))
	for _, rec := range f.Cameras {
		seen[rec.ID] = true
		if v, ok := r.cameras.Load(rec.ID); ok {
			// Known camera: refresh static fields, keep runtime online state.
			e := v.(*cameraEntry)
			e.mu.Lock()
			online := e.rec.Online
			e.rec = rec
			e.rec.Online = online
			e.mu.Unlock()
			continue
		}
		r.cameras.Store(rec.ID, &cameraEntry{rec: rec})
	}

	// Drop cameras removed from the file.
	r.cameras.Range(func(k, _ any) bool {
		if !seen[k.(string)] {
			r.cameras.Delete(k)
		}
		return true
	})
	return nil
}

// Get returns a copy of the camera record.
func (r *Registry) Get(id string) (*Record, error) {
	v, ok := r.cameras.Load(id)
	if !ok {
		return nil, ErrCameraNotFound
	}
	e := v.(*cameraEntry)
	e.mu.Lock()
	out := e.rec
	e.mu.Unlock()
	return &out, nil
}

// List returns all cameras ordered by ID.
func (r *Registry) List() []*Record {
	var out []*Record
	r.cameras.Range(func(_, v any) bool {
		e := v.(*cameraEntry)
		e.mu.Lock()
		rec := e.rec
		e.mu.Unlock()
		out = append(out, &rec)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetOnline updates the camera's online flag and reports whether the value
// actually changed (online<->offline transition).
func (r *Registry) SetOnline(id string, online bool) (changed bool, err error) {
	v, ok := r.cameras.Load(id)
	if !ok {
		return false, ErrCameraNotFound
	}
	e := v.(*cameraEntry)
	e.mu.Lock()
	changed = e.rec.Online != online
	e.rec.Online = online
	e.mu.Unlock()
	return changed, nil
}
