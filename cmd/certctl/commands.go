package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/dto"
	"github.com/TaniaGavilanes/software-back/pkg/database"
	"github.com/TaniaGavilanes/software-back/pkg/jwt"
	"github.com/TaniaGavilanes/software-back/pkg/redis"
)

// ── migrate ──

func (c *cli) migrateCmd() *cobra.Command {
	var departments bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !departments {
				db, err := database.NewDB(&c.cfg.Database, c.cfg.Log.Level, c.logger)
				if err != nil {
					return err
				}
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				defer sqlDB.Close()
				return database.RunMigrations(sqlDB, database.MigrationsCore, c.logger)
			}

			dbs, err := database.NewDepartmentDBs(c.cfg.Departments, c.cfg.Log.Level, c.logger)
			if err != nil {
				return err
			}
			defer database.CloseAll(dbs)

			ids := make([]string, 0, len(dbs))
			for id := range dbs {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				sqlDB, err := dbs[id].DB()
				if err != nil {
					return err
				}
				if err := database.RunMigrations(sqlDB, database.MigrationsDepartment, c.logger.With(zap.String("department_id", id))); err != nil {
					return fmt.Errorf("部门 %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tOK\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&departments, "departments", false, "迁移全部部门库而不是主库")
	return cmd
}

// ── generate ──

func (c *cli) generateCmd() *cobra.Command {
	var (
		facultyID string
		code      string
		req       dto.GenerateCertificateRequest
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "生成单个证明文件并输出 JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			res, err := st.svc.Certificate.Generate(ctx, facultyID, certificate.Code(strings.ToUpper(code)), &req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&facultyID, "faculty", "", "教师编号（clave_docente）")
	cmd.Flags().StringVar(&code, "code", "", "证明文件编码，如 DOC062")
	cmd.Flags().IntVar(&req.Year, "year", 0, "统计年份，默认当前年份")
	cmd.Flags().StringVar(&req.Term, "term", "", "学期：ENERO-JUNIO 或 AGOSTO-DICIEMBRE")
	cmd.Flags().StringVar(&req.DepartmentID, "department", "", "部门编号，默认教师所属部门")
	_ = cmd.MarkFlagRequired("faculty")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

// ── orchestrate ──

func (c *cli) orchestrateCmd() *cobra.Command {
	var facultyID string
	cmd := &cobra.Command{
		Use:   "orchestrate",
		Short: "生成教师当年全部适用的证明文件",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			resp, err := st.svc.Certificate.Orchestrate(ctx, facultyID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&facultyID, "faculty", "", "教师编号（clave_docente）")
	_ = cmd.MarkFlagRequired("faculty")
	return cmd
}

// ── export ──

func (c *cli) exportCmd() *cobra.Command {
	var facultyID, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出教师当年证明文件汇总 Excel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.openStack()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			buf, filename, err := st.svc.Export.ExportCertificates(ctx, facultyID)
			if err != nil {
				return err
			}
			if out == "" {
				out = filename
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("写入文件失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&facultyID, "faculty", "", "教师编号（clave_docente）")
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件，默认 constancias_<教师>_<年份>.xlsx")
	_ = cmd.MarkFlagRequired("faculty")
	return cmd
}

// ── catalog ──

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "列出已注册的证明文件类型",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := newTable("CODE", "SCOPE", "KEY", "TITLE")
			for _, d := range certificate.DefaultRegistry().Definitions() {
				tbl.addRow(string(d.Code), string(d.Scope), d.EvidenceKey, d.Title)
			}
			return tbl.render(cmd.OutOrStdout())
		},
	}
}

// ── token ──

func (c *cli) tokenCmd() *cobra.Command {
	var (
		userID    string
		facultyID string
		role      string
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发运维 Access Token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != jwt.RoleAdmin && role != jwt.RoleFaculty {
				return fmt.Errorf("无效的角色: %s", role)
			}
			if role == jwt.RoleFaculty && facultyID == "" {
				return errors.New("教师角色必须指定 --faculty")
			}

			token, err := jwt.NewManager(&c.cfg.Auth).GenerateAccessToken(userID, facultyID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "用户标识")
	cmd.Flags().StringVar(&facultyID, "faculty", "", "教师编号，管理员可为空")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "角色：admin 或 faculty")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "有效期，默认 auth.access_token_ttl")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// ── revoke ──

func (c *cli) revokeCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "注销 Access Token（加入 Redis 黑名单直至过期）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			claims, err := jwt.NewManager(&c.cfg.Auth).ParseToken(token)
			if err != nil {
				return err
			}

			rdb, err := redis.NewClient(&c.cfg.Redis, c.logger)
			if err != nil {
				return err
			}
			defer rdb.Close()

			// 未声明过期时间的 Token 按默认有效期保留黑名单
			ttl := c.cfg.Auth.AccessTokenTTL
			if claims.ExpiresAt != nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
			if err := rdb.BlacklistToken(cmd.Context(), claims.ID, ttl); err != nil {
				return fmt.Errorf("写入黑名单失败: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\trevoked\n", claims.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "待注销的 Access Token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
