package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hay-kot/sesconf/internal/patcher"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sesconf.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write plan: %v", err)
	}
	return path
}

func TestLoadPlan_Default(t *testing.T) {
	plan, err := LoadPlan("")
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}

	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if diff := cmp.Diff(DefaultTargets, plan.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(patcher.DefaultPatch(), plan.Patch()); diff != "" {
		t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPlan_File(t *testing.T) {
	path := writePlan(t, `
section: Mail
targets:
  - path: api/appsettings.json
    tags: [api, prod]
  - path: /srv/publish/appsettings.json
    tags: [publish]
fields:
  UseSes: true
  SesRegion: eu-central-1
  FromEmail: noreply@example.com
  Retries: 3
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}

	if plan.Section != "Mail" {
		t.Errorf("Section = %q, want Mail", plan.Section)
	}

	wantTargets := []Target{
		{Path: filepath.Join(filepath.Dir(path), "api/appsettings.json"), Tags: []string{"api", "prod"}},
		{Path: "/srv/publish/appsettings.json", Tags: []string{"publish"}},
	}
	if diff := cmp.Diff(wantTargets, plan.Targets); diff != "" {
		t.Errorf("Targets mismatch (-want +got):\n%s", diff)
	}

	patch := plan.Patch()
	var keys []string
	for _, f := range patch.Fields {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"UseSes", "SesRegion", "FromEmail", "Retries"}, keys); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
	if patch.Fields[0].Value != true {
		t.Errorf("UseSes = %#v, want true", patch.Fields[0].Value)
	}
	if patch.Fields[1].Value != "eu-central-1" {
		t.Errorf("SesRegion = %#v, want eu-central-1", patch.Fields[1].Value)
	}
}

func TestLoadPlan_Defaults(t *testing.T) {
	path := writePlan(t, `
targets:
  - path: appsettings.json
`)

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}

	if diff := cmp.Diff(patcher.DefaultPatch(), plan.Patch()); diff != "" {
		t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPlan_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
			t.Error("LoadPlan() expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writePlan(t, "targets: [\n")
		if _, err := LoadPlan(path); err == nil {
			t.Error("LoadPlan() expected error for invalid yaml")
		}
	})
}

func TestPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plan    func() Plan
		wantErr bool
	}{
		{
			name:    "default",
			plan:    DefaultPlan,
			wantErr: false,
		},
		{
			name: "no targets",
			plan: func() Plan {
				p := DefaultPlan()
				p.Targets = nil
				return p
			},
			wantErr: true,
		},
		{
			name: "empty target path",
			plan: func() Plan {
				p := DefaultPlan()
				p.Targets = append(p.Targets, Target{})
				return p
			},
			wantErr: true,
		},
		{
			name: "no section",
			plan: func() Plan {
				p := DefaultPlan()
				p.Section = ""
				return p
			},
			wantErr: true,
		},
		{
			name: "no fields",
			plan: func() Plan {
				p := DefaultPlan()
				p.Fields = nil
				return p
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlan_WithFiles(t *testing.T) {
	plan, err := DefaultPlan().WithFiles([]string{"/tmp/a.json", "/tmp//b.json"})
	if err != nil {
		t.Fatalf("WithFiles() error = %v", err)
	}

	if diff := cmp.Diff([]string{"/tmp/a.json", "/tmp/b.json"}, plan.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}

	same, err := DefaultPlan().WithFiles(nil)
	if err != nil {
		t.Fatalf("WithFiles(nil) error = %v", err)
	}
	if diff := cmp.Diff(DefaultTargets, same.Paths()); diff != "" {
		t.Errorf("WithFiles(nil) changed targets (-want +got):\n%s", diff)
	}
}
