package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// internalPrefix marks names that are never registered.
const internalPrefix = "_"

// Function is a named callable exposed by a plugin, either a free function
// or a method bound to a class instance.
type Function struct {
	Name   string
	Params []Param
	Call   Func
}

// Class is a plugin type that must be instantiated before its methods can be
// registered. New builds the single shared instance and returns its methods.
type Class struct {
	Name string
	New  func() ([]Function, error)
}

// Plugin is the registration contract every capability module implements.
type Plugin interface {
	Name() string
	Functions() []Function
	Classes() []Class
}

// Factory builds a plugin. A failing factory is skipped during discovery.
type Factory func() (Plugin, error)

// Discover builds a registry from factories, in order. Plugin and class
// construction failures are logged as warnings and skipped; the returned
// registry simply lacks what could not be built.
func Discover(log zerolog.Logger, policy NamingPolicy, factories ...Factory) *Registry {
	r := New()
	for i, factory := range factories {
		pm, err := loadPlugin(factory)
		if err != nil {
			log.Warn().Err(err).Int("plugin", i).Msg("could not load plugin")
			continue
		}
		r.addPlugin(log, policy, pm)
	}
	log.Debug().Int("capabilities", r.Len()).Strs("keys", r.Keys()).Msg("discovery complete")
	return r
}

// manifest is a plugin's name and members, read once while loading.
type manifest struct {
	name      string
	classes   []Class
	functions []Function
}

func (r *Registry) addPlugin(log zerolog.Logger, policy NamingPolicy, pm manifest) {
	module := pm.name

	for _, class := range pm.classes {
		methods, err := instantiate(class)
		if err != nil {
			log.Warn().Err(err).
				Str("plugin", module).
				Str("class", class.Name).
				Msg("could not instantiate class")
			continue
		}
		for _, m := range methods {
			if !isPublic(m.Name) {
				continue
			}
			// 组合键在前，裸方法名在后
			r.Register(&Capability{
				Key:      policy.CompositeKey(class.Name, m.Name),
				Module:   module,
				Receiver: class.Name,
				Params:   m.Params,
				Call:     m.Call,
			})
			r.Register(&Capability{
				Key:      m.Name,
				Module:   module,
				Receiver: class.Name,
				Params:   m.Params,
				Call:     m.Call,
			})
		}
	}

	for _, fn := range pm.functions {
		if !isPublic(fn.Name) {
			continue
		}
		r.Register(&Capability{
			Key:    fn.Name,
			Module: module,
			Params: fn.Params,
			Call:   fn.Call,
		})
	}
}

func isPublic(name string) bool {
	return name != "" && !strings.HasPrefix(name, internalPrefix)
}

// loadPlugin builds the plugin and lists its members. A panic anywhere in
// the plugin, including a typed-nil plugin, is returned as an error.
func loadPlugin(factory Factory) (m manifest, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("plugin panicked: %v", rec)
		}
	}()
	p, err := factory()
	if err != nil {
		return manifest{}, err
	}
	if p == nil {
		return manifest{}, errors.New("plugin factory returned nil")
	}
	return manifest{
		name:      p.Name(),
		classes:   p.Classes(),
		functions: p.Functions(),
	}, nil
}

func instantiate(class Class) (methods []Function, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()
	if class.New == nil {
		return nil, fmt.Errorf("class %s has no constructor", class.Name)
	}
	return class.New()
}
