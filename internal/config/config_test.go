package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"studyhub/internal/config"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	err := os.WriteFile(path, []byte(contents), 0o644)
	if err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func Test_Load_Defaults_When_No_Path_Given(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := config.Default()
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func Test_Load_Merges_File_Over_Defaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studyhub.json")
	writeFile(t, path, `{"data_dir": "custom/users", "listen": ":9090"}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != "custom/users" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "custom/users")
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, ":9090")
	}

	// Fields absent from the file keep their defaults.
	if cfg.UploadDir != config.Default().UploadDir {
		t.Errorf("UploadDir = %q, want default %q", cfg.UploadDir, config.Default().UploadDir)
	}
}

func Test_Load_Accepts_Comments_And_Trailing_Commas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studyhub.json")
	writeFile(t, path, `{
		// where user documents live
		"data_dir": "commented/users",
		"users_file": "accounts.json",
	}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != "commented/users" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "commented/users")
	}

	if cfg.UsersFile != "accounts.json" {
		t.Errorf("UsersFile = %q, want %q", cfg.UsersFile, "accounts.json")
	}
}

func Test_Load_Fails_When_Explicit_Path_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func Test_Load_Fails_On_Malformed_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studyhub.json")
	writeFile(t, path, `{"data_dir": `)

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func Test_Validate_Rejects_Blank_Required_Paths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "blank data_dir", mutate: func(c *config.Config) { c.DataDir = "" }},
		{name: "blank upload_dir", mutate: func(c *config.Config) { c.UploadDir = "" }},
		{name: "blank users_file", mutate: func(c *config.Config) { c.UsersFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(&cfg)

			if err := config.Validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
