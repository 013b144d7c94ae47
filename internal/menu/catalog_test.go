package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMenu = `numero,nome,descricao,preco,tempo_estimado_minutos
1,X-Burger,Hambúrguer com queijo,25.90,15
3,X-Bacon,Hambúrguer com bacon,32.00,18
15,Refrigerante,Lata 350ml,6.50,2
`

func writeMenuFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardapio.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Lookup(t *testing.T) {
	catalog, err := Load(writeMenuFile(t, sampleMenu))
	require.NoError(t, err)
	require.Equal(t, 3, catalog.Len())

	item, ok := catalog.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "X-Burger", item.Name)
	require.Equal(t, 25.90, item.Price)
	require.Equal(t, 15, item.PrepMinutes)

	_, ok = catalog.Lookup(99)
	require.False(t, ok)
}

func TestLoad_ItemsSortedByNumber(t *testing.T) {
	catalog, err := Load(writeMenuFile(t, `numero,nome,descricao,preco,tempo_estimado_minutos
15,Refrigerante,Lata 350ml,6.50,2
1,X-Burger,Hambúrguer com queijo,25.90,15
3,X-Bacon,Hambúrguer com bacon,32.00,18
`))
	require.NoError(t, err)

	items := catalog.Items()
	require.Len(t, items, 3)
	require.Equal(t, []int{1, 3, 15}, []int{items[0].Number, items[1].Number, items[2].Number})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty menu", "numero,nome,descricao,preco,tempo_estimado_minutos\n"},
		{"wrong column count", "numero,nome,descricao,preco,tempo_estimado_minutos\n1,X-Burger,desc,25.90\n"},
		{"non-numeric number", "numero,nome,descricao,preco,tempo_estimado_minutos\nabc,X-Burger,desc,25.90,15\n"},
		{"zero number", "numero,nome,descricao,preco,tempo_estimado_minutos\n0,X-Burger,desc,25.90,15\n"},
		{"negative price", "numero,nome,descricao,preco,tempo_estimado_minutos\n1,X-Burger,desc,-1.00,15\n"},
		{"negative prep time", "numero,nome,descricao,preco,tempo_estimado_minutos\n1,X-Burger,desc,25.90,-5\n"},
		{"duplicate number", "numero,nome,descricao,preco,tempo_estimado_minutos\n1,X-Burger,desc,25.90,15\n1,X-Salada,desc,27.90,15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeMenuFile(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestReload_SwapsCatalog(t *testing.T) {
	path := writeMenuFile(t, sampleMenu)
	catalog, err := Load(path)
	require.NoError(t, err)

	updated := sampleMenu + "20,Açaí na Tigela,Tigela 500ml,18.00,8\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.NoError(t, catalog.Reload(path))
	require.Equal(t, 4, catalog.Len())

	item, ok := catalog.Lookup(20)
	require.True(t, ok)
	require.Equal(t, "Açaí na Tigela", item.Name)
}

func TestReload_KeepsOldCatalogOnError(t *testing.T) {
	path := writeMenuFile(t, sampleMenu)
	catalog, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("numero,nome,descricao,preco,tempo_estimado_minutos\nbad,row,here,x,y\n"), 0o644))

	require.Error(t, catalog.Reload(path))
	require.Equal(t, 3, catalog.Len())

	_, ok := catalog.Lookup(1)
	require.True(t, ok)
}
