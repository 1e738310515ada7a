package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9_]+`)

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes <dir>/<UTC timestamp>_<name>.sql with empty up and
// down sections. It refuses names already used by another migration in dir.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := strings.Trim(unsafeNameRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_"), "_")
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	existing, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil {
		return "", err
	}
	for _, path := range existing {
		if m := sqlFileRe.FindStringSubmatch(filepath.Base(path)); m != nil && m[2] == slug {
			return "", fmt.Errorf("migration %q already exists: %s", slug, path)
		}
	}

	path := filepath.Join(dir, time.Now().UTC().Format("20060102150405")+"_"+slug+".sql")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(sqlTemplate, slug)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}
