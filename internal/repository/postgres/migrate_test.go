package postgres

import (
	"io"
	"io/fs"
	"strings"
	"testing"
)

func TestPrefixedMigrations(t *testing.T) {
	fsys := prefixedFS{fsys: migrationFiles, prefix: "test_"}

	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d migration files, want 4", len(entries))
	}

	for _, e := range entries {
		f, err := fsys.Open("migrations/" + e.Name())
		if err != nil {
			t.Fatalf("Open(%s) error = %v", e.Name(), err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		body := string(data)
		if strings.Contains(body, "{{prefix}}") {
			t.Errorf("%s still contains the prefix placeholder", e.Name())
		}
		if !strings.Contains(body, "test_") {
			t.Errorf("%s does not reference prefixed tables", e.Name())
		}
	}
}

func TestMigrateURL(t *testing.T) {
	tables := NewTableNames("dev_")
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "postgres scheme",
			in:   "postgres://u:p@localhost:5432/app?sslmode=disable",
			want: "pgx5://u:p@localhost:5432/app?sslmode=disable&x-migrations-table=dev_schema_migrations",
		},
		{
			name: "postgresql scheme",
			in:   "postgresql://localhost/app",
			want: "pgx5://localhost/app?x-migrations-table=dev_schema_migrations",
		},
		{name: "mysql rejected", in: "mysql://localhost/app", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrateURL(tt.in, tables)
			if (err != nil) != tt.wantErr {
				t.Fatalf("migrateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("migrateURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("prod_")
	if tables.Folders != "prod_folders" || tables.Notes != "prod_notes" || tables.Plans != "prod_plans" {
		t.Errorf("tables = %+v", tables)
	}
	if tables.Channel != "prod_workspace_changes" {
		t.Errorf("Channel = %q", tables.Channel)
	}
}
