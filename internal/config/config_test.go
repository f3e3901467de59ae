package config_test

import (
	"errors"
	"testing"

	"github.com/okian/novhub/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.AdminPasscode, convey.ShouldEqual, "novadmin123")
			convey.So(cfg.UploadMaxBytes, convey.ShouldEqual, 5*1024*1024)
			convey.So(cfg.UploadStepIntervalMS, convey.ShouldEqual, 60)
			convey.So(cfg.MetricsSchedule, convey.ShouldEqual, "@every 10s")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		convey.Convey("When the store driver is unknown", func() {
			cfg.StoreDriver = "mongo"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "store_driver")
		})

		convey.Convey("When sqlite has no dsn", func() {
			cfg.StoreDSN = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When memory has no dsn", func() {
			cfg.StoreDriver = "memory"
			cfg.StoreDSN = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the admin passcode is empty", func() {
			cfg.AdminPasscode = ""
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "admin_passcode")
		})
	})
}

func TestConfig_AllowedOrigins(t *testing.T) {
	convey.Convey("Given a comma-separated origin list", t, func() {
		cfg := config.New()
		cfg.CORSAllowedOrigins = " https://a.example , ,https://b.example"

		convey.Convey("Then blanks are dropped and entries trimmed", func() {
			convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})

		convey.Convey("Then an empty list yields nothing", func() {
			cfg.CORSAllowedOrigins = ""
			convey.So(cfg.AllowedOrigins(), convey.ShouldBeEmpty)
		})
	})
}
