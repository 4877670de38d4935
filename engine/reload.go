package engine

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/ecs/entity"
	"github.com/milk9111/adventuretycoon/event"
	"github.com/milk9111/adventuretycoon/prefabs"
)

func (e *Engine) startWatcher() error {
	w, err := prefabs.NewWatcher(prefabs.DiskDir)
	if err != nil {
		return err
	}
	e.watcher = w
	log.Printf("engine: watching %s for config changes", prefabs.DiskDir)
	return nil
}

// pollReload drains pending watcher events without blocking the tick.
func (e *Engine) pollReload() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(path) != filepath.Base(e.opts.ConfigName) {
				continue
			}
			if err := e.Reload(); err != nil {
				log.Printf("engine: reload %s: %v", path, err)
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("engine: watch: %v", err)
		default:
			return
		}
	}
}

// Reload reads the config file again and applies it to input bindings,
// clock, physics and live cameras. On error the current config stays.
func (e *Engine) Reload() error {
	cfg, err := prefabs.LoadConfig(e.opts.ConfigName)
	if err != nil {
		return err
	}
	return e.ApplyConfig(cfg)
}

// ApplyConfig swaps in cfg while running. Camera sections are decoded
// before anything is applied, so on error the current config stays.
func (e *Engine) ApplyConfig(cfg *prefabs.Config) error {
	if e.state != StateRunning && e.state != StateInitialized {
		return ErrNotRunning
	}

	type cameraUpdate struct {
		cam  *Camera
		comp component.Camera
	}
	var updates []cameraUpdate
	for name, cam := range e.cameras {
		spec, err := cfg.Object(name)
		if err != nil {
			log.Printf("engine: reload camera %q: %v", name, err)
			continue
		}
		raw, ok := spec.Components["camera"]
		if !ok {
			continue
		}
		comp, err := entity.DecodeCamera(raw)
		if err != nil {
			return fmt.Errorf("engine: reload camera %q: %w", name, err)
		}
		updates = append(updates, cameraUpdate{cam: cam, comp: comp})
	}

	if err := e.applyConfig(cfg); err != nil {
		return err
	}
	e.config = cfg

	for _, u := range updates {
		comp := u.comp
		if err := ecs.Add(e.world, u.cam.entity, component.CameraComponent.Kind(), &comp); err != nil {
			log.Printf("engine: reload camera %q: %v", u.cam.name, err)
		}
	}

	log.Printf("engine: config %q reloaded", e.opts.ConfigName)
	event.Publish(e.bus, event.ConfigReloaded{Path: e.opts.ConfigName, Config: cfg})
	return nil
}
