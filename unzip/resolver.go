package unzip

import (
	"path"
	"strings"

	"github.com/relloyd/lakepipe/errkind"
)

// TableFolder is where an archive member lands: <table>/<partition>.
type TableFolder struct {
	Table     string
	Partition string
}

// Folder returns <table>/<partition>.
func (t TableFolder) Folder() string {
	return t.Table + "/" + t.Partition
}

// ResolveTableFolder derives the table and partition from an archive member name.
// Members in a directory use their first two path segments, e.g. A/2024/x.csv is table A partition 2024.
// Flat names use their first two dot separated segments, e.g. A.2024.csv and A.2024.extra.csv are both
// table A partition 2024.
func ResolveTableFolder(member string) (TableFolder, error) {
	name := strings.TrimSuffix(path.Clean(strings.TrimPrefix(member, "./")), ".csv")
	if !strings.Contains(name, "/") { // if the member is not in a directory...
		name = strings.Replace(name, ".", "/", 2)
	}
	segs := strings.SplitN(name, "/", 3)
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return TableFolder{}, errkind.Errorf(errkind.Configuration, "resolve table folder",
			"member %q does not name a table and partition", member)
	}
	return TableFolder{Table: segs[0], Partition: segs[1]}, nil
}
