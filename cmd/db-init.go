/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/eslsoft/lingodrill/internal/adapter/repository"
	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/infrastructure/config"
	"github.com/eslsoft/lingodrill/internal/infrastructure/database"
)

// dbInitCmd initializes the database schema and optionally seeds the
// built-in practice modules.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "初始化数据库",
	Long:  "创建数据表并可选地写入内置练习模块。注意: go-sqlite3 需要 CGO_ENABLED=1 构建。",
	RunE: func(cmd *cobra.Command, args []string) error {
		seedDefaults, _ := cmd.Flags().GetBool("seed-defaults")
		if err := runMigrations(); err != nil {
			return err
		}
		if !seedDefaults {
			return nil
		}
		return seedDefaultModules(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().Bool("seed-defaults", false, "写入内置默认练习模块")
}

// runMigrations creates any missing tables in the target database.
func runMigrations() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	_, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}
	defer cleanup()

	log.Println("数据库迁移完成")
	return nil
}

// seedDefaultModules stores the built-in topics so they get stable ids.
// Existing modules with the same name are left untouched.
func seedDefaultModules(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}
	defer cleanup()

	modules := repository.NewModuleRepository(db)
	total := 0
	for language, names := range entity.DefaultModules {
		for _, name := range names {
			existing, err := modules.FindByName(ctx, name, language)
			if err != nil {
				return fmt.Errorf("查询模块失败: %w", err)
			}
			if existing != nil {
				continue
			}
			if _, err := modules.Create(ctx, &entity.Module{Name: name, Language: language}); err != nil {
				return fmt.Errorf("写入模块失败: %w", err)
			}
			total++
		}
	}
	log.Printf("已写入 %d 个内置模块", total)
	return nil
}
