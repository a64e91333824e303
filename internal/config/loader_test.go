package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/halverson/scoutline/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("With no file and no environment, defaults apply", t, func() {
		cfg, err := config.Load("")
		So(err, ShouldBeNil)
		So(cfg.Season, ShouldEqual, "2023-2024")
		So(cfg.OutputDir, ShouldEqual, "output")
		So(cfg.RestartEvery, ShouldEqual, 30)
		So(cfg.Retries, ShouldEqual, 3)
		So(cfg.RetryDelay(), ShouldEqual, 5*time.Second)
		So(cfg.PageCacheTTL(), ShouldEqual, 12*time.Hour)
		So(cfg.RedisURL, ShouldEqual, "")
	})
}

func TestLoadLayering(t *testing.T) {
	Convey("Given a YAML file and environment overrides", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "scoutline.yaml")
		yaml := "season: \"2024-2025\"\noutput_dir: runs/2025\nretries: 4\n"
		So(os.WriteFile(path, []byte(yaml), 0o644), ShouldBeNil)

		t.Setenv("SCOUTLINE_OUTPUT_DIR", "runs/override")
		t.Setenv("SCOUTLINE_RESTART_EVERY", "10")

		cfg, err := config.Load(path)
		So(err, ShouldBeNil)

		Convey("File values override defaults", func() {
			So(cfg.Season, ShouldEqual, "2024-2025")
			So(cfg.Retries, ShouldEqual, 4)
		})

		Convey("Environment overrides the file", func() {
			So(cfg.OutputDir, ShouldEqual, "runs/override")
			So(cfg.RestartEvery, ShouldEqual, 10)
		})

		Convey("Untouched values keep their defaults", func() {
			So(cfg.LeaguesFile, ShouldEqual, "data/leagues.csv")
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("A malformed season is rejected", t, func() {
		t.Setenv("SCOUTLINE_SEASON", "2024")
		_, err := config.Load("")
		So(err, ShouldNotBeNil)
	})

	Convey("An empty output dir is rejected", t, func() {
		t.Setenv("SCOUTLINE_OUTPUT_DIR", "")
		_, err := config.Load("")
		So(err, ShouldNotBeNil)
	})

	Convey("A missing config file is an error", t, func() {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		So(err, ShouldNotBeNil)
	})
}
