package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// ValidateDir checks the migrations in dir. An empty dir validates the set
// compiled into the binary.
func ValidateDir(dir string) error {
	if dir == "" {
		return validateFS(embedded, embeddedDir)
	}
	return validateFS(os.DirFS(dir), ".")
}

// validateFS enforces goose file naming, unique versions and unique names,
// and that every file declares both directions.
func validateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	versions := map[string]string{}
	names := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		file := e.Name()

		m := sqlFileRe.FindStringSubmatch(file)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", file)
		}
		if prev, ok := versions[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, file)
		}
		if prev, ok := names[m[2]]; ok {
			return fmt.Errorf("duplicate migration name %q in %q and %q", m[2], prev, file)
		}
		versions[m[1]], names[m[2]] = file, file

		b, err := fs.ReadFile(fsys, joinPath(dir, file))
		if err != nil {
			return fmt.Errorf("read %q: %w", file, err)
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(b), marker) {
				return fmt.Errorf("migration %q missing %q", file, marker)
			}
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no migrations found")
	}
	return nil
}

func joinPath(dir, file string) string {
	if dir == "." {
		return file
	}
	return dir + "/" + file
}
