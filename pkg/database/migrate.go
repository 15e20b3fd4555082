package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 预订域的 schema 迁移（桌位、座椅、顾客、预订、分配、营业时间）
// 全部内嵌在 migrations/ 下，按版本号顺序执行
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 启动时把预订库 schema 推进到最新版本
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载内嵌迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("预订库迁移处于 dirty 状态，需要人工介入", zap.Uint("version", version))
	} else {
		logger.Info("预订库迁移完成", zap.Uint("version", version))
	}

	return nil
}
