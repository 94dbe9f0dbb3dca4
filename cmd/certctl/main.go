// certctl 运维命令行：数据库迁移、证明文件生成调试、运维 Token 签发与注销。
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/config"
	applogger "github.com/TaniaGavilanes/software-back/pkg/logger"
)

// cli 命令共享状态，由 PersistentPreRunE 填充
type cli struct {
	configPath string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	return c.rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "certctl",
		Short: "证明文件服务运维工具",
		Long: `certctl 直接连接主库与部门库，用于：
  migrate     执行主库（或部门库）迁移
  generate    生成单个证明文件并输出 JSON
  orchestrate 生成教师当年全部适用的证明文件
  export      导出教师当年证明文件汇总 Excel
  catalog     列出已注册的证明文件类型
  token       签发运维 Access Token
  revoke      注销 Access Token`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg == nil {
				cfg, err := config.Load(c.configPath)
				if err != nil {
					return err
				}
				c.cfg = cfg
			}
			if c.logger == nil {
				logger, err := applogger.NewLogger(&c.cfg.Log)
				if err != nil {
					return fmt.Errorf("初始化日志失败: %w", err)
				}
				c.logger = logger
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("CERT_CONFIG"), "配置文件路径")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "单条命令的截止时间")

	root.AddCommand(
		c.migrateCmd(),
		c.generateCmd(),
		c.orchestrateCmd(),
		c.exportCmd(),
		c.catalogCmd(),
		c.tokenCmd(),
		c.revokeCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
