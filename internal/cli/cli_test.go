package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/jhoicas/pos-beras/internal/domain/entity"
	pkgjwt "github.com/jhoicas/pos-beras/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "posctl", cmd.Use)
	for _, name := range []string{"migrate", "seed", "reconcile", "summary", "token"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("driver"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("sqlite-path"))
}

func TestFormatoInvalido(t *testing.T) {
	_, err := run(t, "--format", "xml", "migrate")
	assert.ErrorContains(t, err, "formato inválido")
}

func TestParseCatalog_Latin1(t *testing.T) {
	raw := []byte("name,category,unit_price,cost,min_qty,opening_qty\n" +
		"Beras Cianjur Pul\xe9n 5kg,beras,\"Rp 75.000\",60000,5,40\n" +
		",,,,,\n" +
		"Ketan Hitam 1kg,ketan,32000,,,\n")

	rows, err := parseCatalog(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beras Cianjur Pulén 5kg", rows[0].Name)
	assert.Equal(t, entity.Money(75000), rows[0].UnitPrice)
	assert.Equal(t, entity.Money(60000), rows[0].Cost)
	assert.Equal(t, int64(40), rows[0].OpeningQty)
	assert.Equal(t, "ketan", rows[1].Category)
	assert.Zero(t, rows[1].OpeningQty)
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("nama,harga\nBeras,1000\n"), "utf8")
	assert.ErrorContains(t, err, "columna name")

	_, err = parseCatalog(strings.NewReader("name,unit_price\nBeras,seribu\n"), "utf8")
	assert.ErrorContains(t, err, "fila 2")

	_, err = parseCatalog(strings.NewReader("name\n"), "ebcdic")
	assert.Error(t, err)
}

func TestRupiah(t *testing.T) {
	assert.Equal(t, "Rp1.250.000", rupiah(1250000))
	assert.Equal(t, "Rp0", rupiah(0))
	assert.Equal(t, "-Rp3.000", rupiah(-3000))
}

func TestSeedYReconcile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "pos.db")
	csvPath := filepath.Join(dir, "produk.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"name,category,unit_price,cost,min_qty,opening_qty\n"+
			"Beras Pandan Wangi 5kg,beras,75000,60000,5,40\n"+
			"Beras Merah 1kg,beras,25000,20000,3,12\n"), 0o644))

	out, err := run(t, "--driver", "sqlite", "--sqlite-path", db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = run(t, "--driver", "sqlite", "--sqlite-path", db, "seed", "--encoding", "utf8", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 producto(s)")

	out, err = run(t, "--driver", "sqlite", "--sqlite-path", db, "--format", "json", "reconcile")
	require.NoError(t, err)
	var rows []dto.ReconciliationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.Balanced, r.ProductName)
	}
	assert.Equal(t, "Beras Merah 1kg", rows[0].ProductName)
	assert.Equal(t, int64(12), rows[0].OnHand)

	out, err = run(t, "--driver", "sqlite", "--sqlite-path", db, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Rp0")
}

func TestSeed_FilaInvalidaNoCargaNada(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "pos.db")
	csvPath := filepath.Join(dir, "produk.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"name,category,unit_price,cost,min_qty,opening_qty\n"+
			"Beras Pandan Wangi 5kg,beras,75000,60000,5,40\n"+
			"Beras Merah 1kg,beras,25000,-20000,3,12\n"+
			"Beras Ketan 1kg,ketan,30000,24000,3,8\n"), 0o644))
	_, err := run(t, "--driver", "sqlite", "--sqlite-path", db, "migrate")
	require.NoError(t, err)

	_, err = run(t, "--driver", "sqlite", "--sqlite-path", db, "seed", "--encoding", "utf8", csvPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fila 3")

	out, err := run(t, "--driver", "sqlite", "--sqlite-path", db, "--format", "json", "reconcile")
	require.NoError(t, err)
	var rows []dto.ReconciliationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Empty(t, rows)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "rahasia-toko")

	out, err := run(t, "token", "--user", "kasir-1", "--role", pkgjwt.RoleKasir)
	require.NoError(t, err)
	userID, role, err := pkgjwt.Parse("rahasia-toko", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "kasir-1", userID)
	assert.Equal(t, pkgjwt.RoleKasir, role)

	_, err = run(t, "token", "--user", "x", "--role", "manager")
	assert.Error(t, err)
}

func TestToken_SinSecreto(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "token", "--user", "kasir-1")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
