package main

import (
	"context"
	"go/types"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/packages"
)

// load type checks the packages matching patterns and collects their
// exported struct types.
func load(ctx context.Context, dir string, patterns ...string) ([]pkgModel, []*packages.Package, error) {
	conf := packages.Config{
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedTypes,
		Context: ctx,
		Dir:     dir,
		Tests:   false,
	}
	pkgs, err := packages.Load(&conf, patterns...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load packages")
	}
	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			errs = append(errs, err.Error())
		}
	})
	if len(errs) != 0 {
		return nil, nil, errors.Errorf("packages contain errors:\n%s", strings.Join(errs, "\n"))
	}
	mdls := make([]pkgModel, 0, len(pkgs))
	for _, pkg := range pkgs {
		mdls = append(mdls, collect(pkg.Name, pkg.PkgPath, pkg.Types.Scope()))
	}
	return mdls, pkgs, nil
}

// collect lists the exported, non generic struct types of scope with their
// exported fields. Embedded fields are left to base discovery and fields
// tagged mirror:"-" are skipped.
func collect(name, path string, scope *types.Scope) pkgModel {
	mdl := pkgModel{Name: name, Path: path}
	for _, ident := range scope.Names() {
		obj, ok := scope.Lookup(ident).(*types.TypeName)
		if !ok || !obj.Exported() || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() != 0 {
			continue
		}
		str, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		typ := typeModel{Name: ident, Permanent: name + "." + ident}
		for idx := 0; idx < str.NumFields(); idx++ {
			fld := str.Field(idx)
			if !fld.Exported() || fld.Embedded() {
				continue
			}
			if tag, _, _ := strings.Cut(reflect.StructTag(str.Tag(idx)).Get("mirror"), ","); tag == "-" {
				continue
			}
			typ.Fields = append(typ.Fields, fld.Name())
		}
		mdl.Types = append(mdl.Types, typ)
	}
	slices.SortFunc(mdl.Types, func(fst, sec typeModel) bool {
		return fst.Name < sec.Name
	})
	return mdl
}
