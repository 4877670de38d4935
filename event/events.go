package event

import "github.com/milk9111/adventuretycoon/prefabs"

// SystemClose asks the host to shut down.
type SystemClose struct{}

// ConfigReloaded is published after the config was reloaded from disk and
// applied to input bindings and cameras.
type ConfigReloaded struct {
	Path   string
	Config *prefabs.Config
}
