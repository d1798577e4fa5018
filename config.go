package gfactory

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists components to register, typically loaded from YAML:
//
//	components:
//	  - service: DGetStrings
//	    implementation: StringSources
//	    method: GetIntegersAsStrings
//	    lifestyle: transient
type Manifest struct {
	Components []ComponentSpec `yaml:"components"`
}

// ComponentSpec is one manifest entry.
type ComponentSpec struct {
	// Service names the contract, as added to the Catalog.
	Service string `yaml:"service"`
	// Implementation names the factory type, as added to the Catalog.
	Implementation string `yaml:"implementation"`
	// Method is the factory method name. It may be omitted when the factory type
	// declares a single method.
	Method     string         `yaml:"method,omitempty"`
	Lifestyle  string         `yaml:"lifestyle,omitempty"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

// LoadManifest decodes a YAML manifest. Unknown fields are rejected.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// ParseLifestyle parses a lifestyle name. The empty string means Singleton.
func ParseLifestyle(s string) (Lifestyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "singleton":
		return Singleton, nil
	case "transient":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	}
	return Singleton, fmt.Errorf("unknown lifestyle %q", s)
}

// Catalog maps the names used in a manifest to Go types and factory types.
type Catalog struct {
	services  map[string]reflect.Type
	factories map[string]*FactoryType
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		services:  make(map[string]reflect.Type),
		factories: make(map[string]*FactoryType),
	}
}

// AddService makes service available under name.
func (c *Catalog) AddService(name string, service reflect.Type) *Catalog {
	c.services[name] = service
	return c
}

// AddFactoryType makes ft available under its name.
func (c *Catalog) AddFactoryType(ft *FactoryType) *Catalog {
	c.factories[ft.Name()] = ft
	return c
}

// CatalogService adds the service type T to cat under name.
func CatalogService[T any](cat *Catalog, name string) *Catalog {
	return cat.AddService(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Registrations turns manifest entries into registrations.
func (m *Manifest) Registrations(cat *Catalog) ([]*Registration, error) {
	regs := make([]*Registration, 0, len(m.Components))
	for i, entry := range m.Components {
		service, ok := cat.services[entry.Service]
		if !ok {
			return nil, fmt.Errorf("%w: component %d: unknown service %q", ErrInvalidManifest, i, entry.Service)
		}
		impl, ok := cat.factories[entry.Implementation]
		if !ok {
			return nil, fmt.Errorf("%w: component %d: unknown implementation %q", ErrInvalidManifest, i, entry.Implementation)
		}
		lifestyle, err := ParseLifestyle(entry.Lifestyle)
		if err != nil {
			return nil, fmt.Errorf("%w: component %d: %w", ErrInvalidManifest, i, err)
		}

		reg := ComponentFor(service).ImplementedBy(impl).Named(entry.Method).WithLifestyle(lifestyle)
		for name, value := range entry.Parameters {
			reg.DependsOn(name, value)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// Install registers every component of m.
func (c *Container) Install(m *Manifest, cat *Catalog) error {
	regs, err := m.Registrations(cat)
	if err != nil {
		return err
	}
	if err := c.Register(regs...); err != nil {
		return err
	}
	c.log.Info("Installed manifest", "components", len(regs))
	return nil
}
