package profile

import (
	"errors"
	"fmt"

	"automapper/internal/mapping"
)

// LoadFile reads a YAML profile file, see Parse.
func LoadFile(path string, catalog *Catalog) (*Profile, error) {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return fromMappingFile(mf, catalog, path)
}

// Parse builds a profile from YAML:
//
//	name: store
//	mappings:
//	  - source: store.Product
//	    target: warehouse.ProductDTO
//	    121: { Name: ProductName }
//	    fields:
//	      - { target: Label, resolver: productLabel }
//	      - { target: City, source: Address.City }
//	    ignore: [InternalCode]
//
// Types and functions are looked up in the catalog.
func Parse(data []byte, catalog *Catalog) (*Profile, error) {
	mf, err := mapping.Parse(data)
	if err != nil {
		return nil, err
	}

	return fromMappingFile(mf, catalog, "")
}

func fromMappingFile(mf *mapping.MappingFile, catalog *Catalog, origin string) (*Profile, error) {
	if catalog == nil {
		catalog = NewCatalog()
	}

	if res := mapping.Validate(mf, catalog.reg); res.HasErrors() {
		err := res.Error()
		if origin != "" {
			err = fmt.Errorf("%s: %w", origin, err)
		}
		return nil, err
	}

	mapping.NormalizeMappingFile(mf)

	name := mf.Name
	if name == "" {
		name = origin
	}

	p := NewProfile(name)
	for i := range mf.TypeMappings {
		if err := declare(p, catalog, &mf.TypeMappings[i]); err != nil {
			return nil, err
		}
	}

	if err := p.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

func declare(p *Profile, catalog *Catalog, tm *mapping.TypeMapping) error {
	src, errSrc := catalog.reg.Type(tm.Source)
	dst, errDst := catalog.reg.Type(tm.Target)
	if err := errors.Join(errSrc, errDst); err != nil {
		return fmt.Errorf("%s: %w", tm.Pair(), err)
	}

	b := CreateMapFor(p, src, dst)

	for _, fm := range tm.Fields {
		if fm.Source != "" {
			b.ForMember(fm.Target, func(o *MemberOptions[any]) { o.MapFrom(fm.Source) })
			continue
		}

		fn, err := catalog.reg.Func(fm.Resolver)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", tm.Pair(), fm.Target, err)
		}
		b.ForMember(fm.Target, func(o *MemberOptions[any]) { o.ResolveUsing(fn) })
	}

	b.Ignore(tm.Ignore...)

	if tm.Converter != "" {
		fn, err := catalog.reg.Func(tm.Converter)
		if err != nil {
			return fmt.Errorf("%s: %w", tm.Pair(), err)
		}
		b.ConvertUsing(fn)
	}

	return nil
}
