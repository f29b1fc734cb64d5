package migration

import (
	"github.com/smallbiznis/ledgerline/internal/config"
	invoicedomain "github.com/smallbiznis/ledgerline/internal/invoice/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(&invoicedomain.Invoice{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
