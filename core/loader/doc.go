// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps registration order and loads enabled features into the Fiber
// router, so 'showtimes' and 'integrity' can be developed and tested in isolation.
package loader
