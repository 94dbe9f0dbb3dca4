package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/pkg/jwt"
)

func testCLI() *cli {
	return &cli{
		cfg: &config.Config{Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			Issuer:         "constancias",
			AccessTokenTTL: 15 * time.Minute,
		}},
		logger: zap.NewNop(),
	}
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := c.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalog(t *testing.T) {
	out, err := run(t, testCLI(), "catalog")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 33, "表头 + 分隔线 + 31 个证明文件类型")
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.True(t, strings.HasPrefix(lines[1], "---"))
	assert.True(t, strings.HasPrefix(lines[2], "DOC033"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "DOC063"))
}

func TestTable_AlignsColumns(t *testing.T) {
	tbl := newTable("A", "B")
	tbl.addRow("xxx", "y")
	tbl.addRow("z", "Evaluación")

	var out bytes.Buffer
	require.NoError(t, tbl.render(&out))
	assert.Equal(t, "A    B\n"+strings.Repeat("-", 15)+"\nxxx  y\nz    Evaluación\n", out.String())
}

func TestToken(t *testing.T) {
	c := testCLI()
	out, err := run(t, c, "token", "--user", "ops", "--role", "faculty", "--faculty", "F1", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := jwt.NewManager(&c.cfg.Auth).ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "F1", claims.FacultyID)
	assert.Equal(t, jwt.RoleFaculty, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestToken_Validation(t *testing.T) {
	_, err := run(t, testCLI(), "token", "--user", "ops", "--role", "root")
	assert.Error(t, err)

	_, err = run(t, testCLI(), "token", "--user", "ops", "--role", "faculty")
	assert.Error(t, err, "教师角色缺少 --faculty 应报错")

	_, err = run(t, testCLI(), "token")
	assert.Error(t, err, "缺少 --user 应报错")
}

func TestRevoke_InvalidToken(t *testing.T) {
	_, err := run(t, testCLI(), "revoke", "--token", "not-a-jwt")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}
