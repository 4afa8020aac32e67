package obj

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilechains/levels"
)

// Source names where a level comes from. LDtkPath wins over Level; Level is
// a .tmx path, a .json path, or the name of a level under levels/.
type Source struct {
	Level     string
	LDtkPath  string
	LDtkLevel string
	// Embedded is searched when Level is not found on disk. Defaults to
	// levels.LevelsFS.
	Embedded fs.FS
}

// LoadSource loads the level described by src.
func LoadSource(src Source) (*Level, error) {
	if src.LDtkPath != "" {
		return LoadLDtk(src.LDtkPath, src.LDtkLevel)
	}
	name := src.Level
	if strings.EqualFold(filepath.Ext(name), ".tmx") {
		return LoadTMX(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	// disk copy first so edits show up without a rebuild
	for _, path := range []string{name, filepath.Join("levels", levels.FileName(name))} {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return LoadLevel(path)
		}
	}
	embedded := src.Embedded
	if embedded == nil {
		embedded = levels.LevelsFS
	}
	return LoadLevelFromFS(embedded, levels.FileName(name))
}
