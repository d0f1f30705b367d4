package assets

import (
	"embed"
	"io/fs"
)

//go:embed puzzles/*.txt
var puzzles embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Puzzles returns the bundled puzzle files, rooted so names are bare file names.
func Puzzles() fs.FS {
	return mustSub(puzzles, "puzzles")
}

// Migrations returns the bundled SQL migrations, rooted at the sql directory.
func Migrations() fs.FS {
	return mustSub(migrations, "sql")
}

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
