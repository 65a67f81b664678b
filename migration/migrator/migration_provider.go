package migrator

import (
	"fmt"
	"slices"
	"sort"
)

// MigrationProvider supplies the catalog, oldest version first.
type MigrationProvider interface {
	Migrations() []*Migration
}

// RegisteredMigrationProvider keeps the catalog in memory and sorts it lazily.
type RegisteredMigrationProvider struct {
	migrations []*Migration
	sorted     bool
}

func NewRegisteredMigrationProvider(migrations ...*Migration) *RegisteredMigrationProvider {
	return &RegisteredMigrationProvider{migrations: migrations}
}

func (p *RegisteredMigrationProvider) Register(migration *Migration) {
	p.migrations = append(p.migrations, migration)
	p.sorted = false
}

// Migrations returns the catalog ordered by ascending version.
func (p *RegisteredMigrationProvider) Migrations() []*Migration {
	p.maybeSort()
	return p.migrations
}

func (p *RegisteredMigrationProvider) maybeSort() {
	if p.sorted {
		return
	}
	sortMigrations(p.migrations)
	p.sorted = true
}

func sortMigrations(migrations []*Migration) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}

// Validate checks that every migration has a positive, unique version, a
// description and both directions.
func Validate(provider MigrationProvider) error {
	var problems []string
	seen := make(map[int64]bool)
	for _, m := range provider.Migrations() {
		switch {
		case m == nil:
			problems = append(problems, "nil migration")
			continue
		case m.Version <= 0:
			problems = append(problems, fmt.Sprintf("version %d is not positive", m.Version))
		case seen[m.Version]:
			problems = append(problems, fmt.Sprintf("version %d is registered twice", m.Version))
		}
		seen[m.Version] = true
		if m.Description == "" {
			problems = append(problems, fmt.Sprintf("version %d has no description", m.Version))
		}
		if m.Up == nil || m.Down == nil {
			problems = append(problems, fmt.Sprintf("version %d is missing an up or down function", m.Version))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, problems)
	}
	return nil
}

func versions(migrations []*Migration) []int64 {
	out := make([]int64, 0, len(migrations))
	for _, m := range migrations {
		out = append(out, m.Version)
	}
	return out
}

func find(migrations []*Migration, version int64) *Migration {
	i := slices.IndexFunc(migrations, func(m *Migration) bool { return m.Version == version })
	if i < 0 {
		return nil
	}
	return migrations[i]
}
