package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/reelrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REELRANK_ADDR", ":8080")
			_ = os.Setenv("REELRANK_MIN_VOTES", "500")
			_ = os.Setenv("REELRANK_CACHE_MAX_AGE", "90m")
			_ = os.Setenv("REELRANK_LANGUAGES", "EN")
			_ = os.Setenv("REELRANK_TMDB_PREFILTER", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MinVotes, convey.ShouldEqual, 500)
				convey.So(cfg.CacheMaxAge, convey.ShouldEqual, 90*time.Minute)
				convey.So(cfg.Languages, convey.ShouldResemble, []string{"en"})
				convey.So(cfg.TMDBPrefilter, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When languages are listed comma-separated in the environment", func() {
			_ = os.Setenv("REELRANK_LANGUAGES", "en, HI")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then each entry becomes one language", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Languages, convey.ShouldResemble, []string{"en", "hi"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
# thresholds
addr: ":9090"
min_rating: 7.5
languages: [hi]
max_limit: 10
cache_enabled: false
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("REELRANK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MinRating, convey.ShouldEqual, 7.5)
				convey.So(cfg.Languages, convey.ShouldResemble, []string{"hi"})
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 10)
				convey.So(cfg.CacheEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MinVotes, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nmin_year: 1990\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("REELRANK_CONFIG", tmpFile)
			_ = os.Setenv("REELRANK_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MinYear, convey.ShouldEqual, 1990)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("REELRANK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			_ = os.Setenv("REELRANK_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("REELRANK_MIN_VOTES", "lots")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given values that break constraints", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := []struct{ key, val string }{
			{"REELRANK_ADDR", ""},
			{"REELRANK_LOG_FORMAT", "xml"},
			{"REELRANK_MIN_RATING", "11"},
			{"REELRANK_LANGUAGES", "english"},
			{"REELRANK_DEFAULT_LIMIT", "0"},
			{"REELRANK_MAX_LIMIT", "0"},
			{"REELRANK_CACHE_MAX_AGE", "0s"},
		}
		for _, c := range cases {
			key, val := c.key, c.val
			convey.Convey("When "+key+" is "+val, func() {
				_ = os.Setenv(key, val)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then loading fails validation", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

func TestConfigDotEnv(t *testing.T) {
	convey.Convey("Given a .env file in the working directory", t, func() {
		clearConfigEnvVars()
		dir := t.TempDir()
		convey.So(os.WriteFile(filepath.Join(dir, ".env"), []byte("REELRANK_ADDR=:7070\n"), 0o600), convey.ShouldBeNil)
		wd, err := os.Getwd()
		convey.So(err, convey.ShouldBeNil)
		convey.So(os.Chdir(dir), convey.ShouldBeNil)
		defer func() { _ = os.Chdir(wd) }()
		defer clearConfigEnvVars()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then its variables are applied", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				if key := kv[:i]; len(key) > len(config.EnvPrefix) && key[:len(config.EnvPrefix)] == config.EnvPrefix {
					_ = os.Unsetenv(key)
				}
				break
			}
		}
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "reelrank-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
