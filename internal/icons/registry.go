// Package icons holds the icon catalog served to the frontend. The catalog
// used to be assembled by mutating a shared global library at import time;
// here it is an explicit registry built once at startup and passed to the
// handler that serves it.
package icons

// Icon identifies a single renderable icon within a named set.
type Icon struct {
	Set  string `json:"set"`
	Name string `json:"name"`
}

// Manifest is the payload served to the frontend: the component the icons
// bind to plus every registered icon in registration order.
type Manifest struct {
	Component string `json:"component"`
	Icons     []Icon `json:"icons"`
}

// Registry collects icon sets for one application instance. Registries are
// independent of each other; nothing is shared process-wide.
type Registry struct {
	component string
	icons     []Icon
	seen      map[Icon]struct{}
}

// NewRegistry returns a registry preloaded with the icons the Allies
// frontend renders: the solid set plus the Reddit brand mark used on the
// login button.
func NewRegistry() *Registry {
	r := &Registry{
		component: "font-awesome-icon",
		seen:      make(map[Icon]struct{}),
	}

	r.Register("solid",
		"user",
		"users",
		"virus",
		"football-ball",
		"chart-line",
		"sign-out-alt",
	)
	r.Register("brands", "reddit")

	return r
}

// Register adds icons to a set, skipping names already present.
func (r *Registry) Register(set string, names ...string) {
	for _, name := range names {
		icon := Icon{Set: set, Name: name}
		if _, ok := r.seen[icon]; ok {
			continue
		}
		r.seen[icon] = struct{}{}
		r.icons = append(r.icons, icon)
	}
}

// Manifest returns the serializable catalog.
func (r *Registry) Manifest() Manifest {
	icons := make([]Icon, len(r.icons))
	copy(icons, r.icons)
	return Manifest{Component: r.component, Icons: icons}
}
