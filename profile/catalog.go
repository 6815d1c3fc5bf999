package profile

import (
	"fmt"
	"reflect"

	"automapper/internal/mapping"
)

// Catalog binds the type and function names used in YAML profiles.
type Catalog struct {
	reg *mapping.Registry
}

func NewCatalog() *Catalog {
	return &Catalog{reg: mapping.NewRegistry()}
}

// RegisterType makes t known as "pkg.Name", "import/path/pkg.Name", plain
// "Name" when unique, and each alias.
func (c *Catalog) RegisterType(t reflect.Type, aliases ...string) error {
	if t == nil {
		return fmt.Errorf("register type: %w", mapping.ErrUnknownType)
	}

	if len(aliases) == 0 {
		return c.reg.AddType(t, "")
	}

	for _, alias := range aliases {
		if err := c.reg.AddType(t, alias); err != nil {
			return err
		}
	}

	return nil
}

// RegisterFunc makes fn usable as a resolver or converter under name.
func (c *Catalog) RegisterFunc(name string, fn any) error {
	if isNilFunc(fn) {
		return fmt.Errorf("register %q: %w", name, ErrNilResolver)
	}

	return c.reg.AddFunc(name, fn)
}

// Register is RegisterType for a type parameter.
func Register[T any](c *Catalog, aliases ...string) error {
	return c.RegisterType(reflect.TypeFor[T](), aliases...)
}
