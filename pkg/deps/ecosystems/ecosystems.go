// Package ecosystems registers one parser per supported manifest ecosystem.
package ecosystems

import (
	"github.com/matzehuels/gitmaster/pkg/deps"
	"github.com/matzehuels/gitmaster/pkg/deps/dotnet"
	"github.com/matzehuels/gitmaster/pkg/deps/golang"
	"github.com/matzehuels/gitmaster/pkg/deps/java"
	"github.com/matzehuels/gitmaster/pkg/deps/javascript"
	"github.com/matzehuels/gitmaster/pkg/deps/php"
	"github.com/matzehuels/gitmaster/pkg/deps/python"
	"github.com/matzehuels/gitmaster/pkg/deps/ruby"
	"github.com/matzehuels/gitmaster/pkg/deps/rust"
)

// All lists the parsers in manifest scan priority order.
var All = []deps.Parser{
	&javascript.PackageJSON{},
	&java.POMParser{},
	&java.GradleParser{},
	&python.Requirements{},
	&python.Pipfile{},
	&python.Poetry{},
	&rust.CargoToml{},
	&golang.GoModParser{},
	&ruby.Gemfile{},
	&php.ComposerJSON{},
	&dotnet.CSProj{},
}
