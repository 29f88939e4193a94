package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	idlockVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())

	idlock := NewAppBuild("idlock", "cmd/idlock", idlockVersion)
	idlock.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", idlockVersion).
			Env("CGO_ENABLED", "0")
	})
	idlock.Variant("windows", "amd64")
	idlock.Variant("linux", "amd64")
	idlock.Variant("linux", "arm64")
	idlock.Variant("darwin", "amd64")
	idlock.Variant("darwin", "arm64")
	b.ImportApp(idlock)

	b.Execute()
}
