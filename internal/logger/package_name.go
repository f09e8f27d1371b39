package logger

import (
	"runtime"
	"strings"
)

type PackageNameResolver struct {
	BasePackage string
	Depth       int
}

// PackageName returns the caller's package path relative to BasePackage,
// e.g. "txsystem" for github.com/alphabill-org/digitalcash/txsystem.
func (r *PackageNameResolver) PackageName() string {
	pc, _, _, _ := runtime.Caller(r.depth())
	name := runtime.FuncForPC(pc).Name()
	parts := strings.SplitN(name, r.BasePackage, 2)
	pkg := parts[0]
	if len(parts) == 2 {
		pkg = strings.SplitN(parts[1], ".", 2)[0]
	}
	return strings.Trim(pkg, "/")
}

func (r *PackageNameResolver) depth() int {
	// 2 skips PackageName and the logging function calling it
	if r.Depth == 0 {
		return 2
	}
	return r.Depth
}
