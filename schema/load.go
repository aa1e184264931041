package schema

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a static schema.
type Definition struct {
	Namespaces []NamespaceDefinition `yaml:"namespaces" toml:"namespaces"`
}

type NamespaceDefinition struct {
	URI   string           `yaml:"uri" toml:"uri"`
	Types []TypeDefinition `yaml:"types" toml:"types"`
}

type TypeDefinition struct {
	Name string `yaml:"name" toml:"name"`
	// Base is either a bare name in the same namespace or "{uri}Name"
	Base               string   `yaml:"base,omitempty" toml:"base,omitempty"`
	ContentProperty    string   `yaml:"content_property,omitempty" toml:"content_property,omitempty"`
	Properties         []string `yaml:"properties,omitempty" toml:"properties,omitempty"`
	AttachedProperties []string `yaml:"attached_properties,omitempty" toml:"attached_properties,omitempty"`
}

func LoadYAML(r io.Reader) (*Static, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, errors.Wrap(err, `failed to decode YAML schema`)
	}
	return NewStaticFromDefinition(&def)
}

func LoadTOML(r io.Reader) (*Static, error) {
	var def Definition
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&def); err != nil {
		return nil, errors.Wrap(err, `failed to decode TOML schema`)
	}
	return NewStaticFromDefinition(&def)
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to open schema file`)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".toml":
		return LoadTOML(f)
	default:
		return nil, errors.Errorf(`unsupported schema file extension %q`, ext)
	}
}

func splitQualified(ns, name string) (string, string) {
	if strings.HasPrefix(name, "{") {
		if i := strings.IndexByte(name, '}'); i > 0 {
			return name[1:i], name[i+1:]
		}
	}
	return ns, name
}

func NewStaticFromDefinition(def *Definition) (*Static, error) {
	s := NewStatic()
	for _, nsdef := range def.Namespaces {
		s.AddNamespace(nsdef.URI)
		for _, tdef := range nsdef.Types {
			ti := NewTypeInfo(nsdef.URI, tdef.Name)
			ti.ContentProperty = tdef.ContentProperty
			for _, name := range tdef.Properties {
				if err := ti.addProperty(name, false); err != nil {
					return nil, errors.Wrapf(ErrDuplicateProperty, `%s.%s`, tdef.Name, name)
				}
			}
			for _, name := range tdef.AttachedProperties {
				if err := ti.addProperty(name, true); err != nil {
					return nil, errors.Wrapf(ErrDuplicateProperty, `%s.%s`, tdef.Name, name)
				}
			}
			if err := s.AddType(ti); err != nil {
				return nil, errors.Wrapf(err, `{%s}%s`, nsdef.URI, tdef.Name)
			}
		}
	}

	// bases can point forward, so link them once everything exists
	for _, nsdef := range def.Namespaces {
		for _, tdef := range nsdef.Types {
			if tdef.Base == "" {
				continue
			}
			ti, _ := s.LookupType(nsdef.URI, tdef.Name)
			bns, bname := splitQualified(nsdef.URI, tdef.Base)
			base, ok := s.LookupType(bns, bname)
			if !ok {
				return nil, errors.Wrapf(ErrBaseTypeNotFound, `%s (base of %s)`, tdef.Base, tdef.Name)
			}
			ti.Base = base
		}
	}

	for _, types := range s.namespaces.Range() {
		for name, rt := range types.Range() {
			seen := map[*TypeInfo]struct{}{}
			for t := rt.info; t != nil; t = t.Base {
				if _, ok := seen[t]; ok {
					return nil, errors.Wrap(ErrBaseTypeCycle, name)
				}
				seen[t] = struct{}{}
			}
		}
	}
	return s, nil
}
