package operations

import (
	"sort"
	"sync"
)

// Registry maps operation names to operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// DefaultRegistry returns a registry holding every built-in operation.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for name, op := range builtins() {
		r.Register(name, op)
	}
	return r
}

// Register adds or replaces the operation for name.
func (r *Registry) Register(name string, op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[name] = op
}

// Lookup returns the operation registered for name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

func builtins() map[string]Operation {
	return map[string]Operation{
		// System
		"get_version":   getVersion,
		"get_info":      getInfo,
		"system_df":     systemDF,
		"system_events": systemEvents,
		"system_prune":  systemPrune,
		"ping":          ping,
		"auth":          registryLogin,

		// Containers
		"list_containers":     listContainers,
		"inspect_container":   inspectContainer,
		"start_container":     containerAction("start"),
		"stop_container":      containerAction("stop", "t"),
		"remove_container":    removeContainer,
		"create_container":    createContainer,
		"restart_container":   containerAction("restart", "t"),
		"kill_container":      containerAction("kill", "signal"),
		"container_logs":      containerLogs,
		"rename_container":    renameContainer,
		"prune_containers":    pruneContainers,
		"exec_container":      execContainer,
		"pause_container":     containerAction("pause"),
		"unpause_container":   containerAction("unpause"),
		"container_stats":     containerStats,
		"container_export":    containerExport,
		"container_commit":    containerCommit,
		"update_container":    updateContainer,
		"wait_container":      waitContainer,
		"attach_container":    attachContainer,
		"resize_container":    resizeContainer,
		"copy_from_container": copyFromContainer,
		"copy_to_container":   copyToContainer,

		// Images
		"list_images":   listImages,
		"pull_image":    pullImage,
		"inspect_image": inspectImage,
		"remove_image":  removeImage,
		"tag_image":     tagImage,
		"prune_images":  pruneImages,
		"build_image":   buildImage,
		"search_images": searchImages,
		"image_history": imageHistory,
		"push_image":    pushImage,
		"load_image":    loadImage,
		"save_image":    saveImage,

		// Networks
		"list_networks":      listNetworks,
		"inspect_network":    inspectNetwork,
		"create_network":     createNetwork,
		"connect_network":    connectNetwork,
		"disconnect_network": disconnectNetwork,
		"remove_network":     removeNetwork,
		"prune_networks":     pruneNetworks,

		// Volumes
		"list_volumes":   listVolumes,
		"inspect_volume": inspectVolume,
		"create_volume":  createVolume,
		"remove_volume":  removeVolume,
		"prune_volumes":  pruneVolumes,
	}
}
