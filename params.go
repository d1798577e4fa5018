package gfactory

import (
	"go/ast"
	"go/parser"
	"go/token"
	"runtime"
	"sync"
)

var (
	// paramNameCache caches parameter names by function entry PC
	paramNameCache      = make(map[uintptr][]string)
	paramNameCacheMutex sync.RWMutex
)

// sourceParamNames returns the parameter names of the function at pc, read from its
// source file. It returns nil when the source is not available, e.g. in a stripped
// binary.
func sourceParamNames(pc uintptr) []string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return nil
	}
	entry := fn.Entry()

	paramNameCacheMutex.RLock()
	if names, ok := paramNameCache[entry]; ok {
		paramNameCacheMutex.RUnlock()
		return names
	}
	paramNameCacheMutex.RUnlock()

	file, line := fn.FileLine(entry)
	names := parseParamNames(file, line)

	paramNameCacheMutex.Lock()
	paramNameCache[entry] = names
	paramNameCacheMutex.Unlock()

	return names
}

// parseParamNames finds the function declaration or literal starting on line and
// flattens its parameter list. Grouped parameters ("a, b int") yield one name each.
func parseParamNames(file string, line int) []string {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil
	}

	var fields *ast.FieldList
	ast.Inspect(f, func(n ast.Node) bool {
		if fields != nil {
			return false
		}
		switch fn := n.(type) {
		case *ast.FuncDecl:
			if fn.Recv == nil && fset.Position(fn.Type.Pos()).Line == line {
				fields = fn.Type.Params
			}
		case *ast.FuncLit:
			if fset.Position(fn.Type.Pos()).Line == line {
				fields = fn.Type.Params
			}
		}
		return true
	})
	if fields == nil {
		return nil
	}

	var names []string
	for _, field := range fields.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}
