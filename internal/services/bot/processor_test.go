package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/menu"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

const testMenu = `numero,nome,descricao,preco,tempo_estimado_minutos
1,X-Burger,Hambúrguer com queijo,25.90,15
3,X-Bacon,Hambúrguer com bacon,32.00,18
15,Refrigerante,Lata 350ml,6.50,2
`

func testCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardapio.csv")
	require.NoError(t, os.WriteFile(path, []byte(testMenu), 0o644))
	catalog, err := menu.Load(path)
	require.NoError(t, err)
	return catalog
}

func newTestProcessor(t *testing.T, store orders.Store) (*Processor, *Registry) {
	t.Helper()
	if store == nil {
		store = orders.NewMemoryStore(5 * time.Minute)
	}
	registry := NewRegistry(30*time.Minute, logger.New("test"))
	replies := NewReplies("Restaurante Teste", "(11) 99999-9999")
	return NewProcessor(testCatalog(t), store, registry, replies, logger.New("test")), registry
}

func handleText(p *Processor, customerID, text string) string {
	return p.Handle(context.Background(), models.InboundMessage{
		CustomerID: customerID,
		Text:       text,
		ReceivedAt: time.Now(),
	})
}

func TestHandle_NoDigitsReturnsWelcome(t *testing.T) {
	p, registry := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "olá, boa noite!")
	require.Contains(t, reply, "Bem-vindo ao Restaurante Teste")
	require.Equal(t, 1, registry.Len())
}

func TestHandle_AddsItemsAndSummarizes(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "quero 1, 3 e 15")
	require.Contains(t, reply, "#1 - X-Burger")
	require.Contains(t, reply, "#3 - X-Bacon")
	require.Contains(t, reply, "#15 - Refrigerante")
	require.Contains(t, reply, "Total: R$ 64.40")
}

func TestHandle_UnknownNumbersSkipped(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "1 e 99")
	require.Contains(t, reply, "#1 - X-Burger")
	require.NotContains(t, reply, "99")
	require.Contains(t, reply, "Total: R$ 25.90")
}

func TestHandle_OnlyUnknownNumbers(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "99, 100")
	require.Contains(t, reply, "Nenhum item válido")

	// Nothing was added; checkout still reports an empty cart.
	reply = handleText(p, "cust-1", "ENVIAR")
	require.Contains(t, reply, "Nenhum item no pedido")
}

func TestHandle_DuplicateNumbersAddTwice(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "15 15")
	require.Contains(t, reply, "Total: R$ 13.00")
}

func TestHandle_CartAccumulatesAcrossMessages(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	handleText(p, "cust-1", "1")
	reply := handleText(p, "cust-1", "3")
	require.Contains(t, reply, "#1 - X-Burger")
	require.Contains(t, reply, "#3 - X-Bacon")
	require.Contains(t, reply, "Total: R$ 57.90")
}

func TestHandle_CheckoutCreatesOrder(t *testing.T) {
	store := orders.NewMemoryStore(5 * time.Minute)
	p, registry := newTestProcessor(t, store)

	handleText(p, "cust-1", "1, 3, 15")
	reply := handleText(p, "cust-1", "ENVIAR")

	require.Contains(t, reply, "Pedido confirmado")
	require.Contains(t, reply, "#1\n")
	require.Contains(t, reply, "Total: R$ 64.40")
	require.Contains(t, reply, "18 minutos")
	require.Equal(t, 0, registry.Len())

	order, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "cust-1", order.CustomerID)
	require.Equal(t, models.StatusPending, order.Status)
	require.Len(t, order.Lines, 3)
	require.Equal(t, 18, order.EstimatedMinutes)
}

func TestHandle_CheckoutKeywordCaseInsensitive(t *testing.T) {
	store := orders.NewMemoryStore(0)
	p, _ := newTestProcessor(t, store)

	handleText(p, "cust-1", "1")
	reply := handleText(p, "cust-1", "  enviar ")
	require.Contains(t, reply, "Pedido confirmado")
}

func TestHandle_CheckoutWithEmptyCart(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	reply := handleText(p, "cust-1", "ENVIAR")
	require.Contains(t, reply, "Nenhum item no pedido")
}

func TestHandle_SecondCheckoutStartsFresh(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	handleText(p, "cust-1", "1")
	handleText(p, "cust-1", "ENVIAR")

	reply := handleText(p, "cust-1", "ENVIAR")
	require.Contains(t, reply, "Nenhum item no pedido")
}

// failingStore rejects every Create so checkout failure paths can be
// exercised.
type failingStore struct {
	orders.Store
}

func (s *failingStore) Create(ctx context.Context, customerID string, lines []models.CartLine) (models.Order, error) {
	return models.Order{}, errors.New("connection refused")
}

func TestHandle_PersistenceFailureKeepsSession(t *testing.T) {
	p, registry := newTestProcessor(t, &failingStore{})

	handleText(p, "cust-1", "1, 3")
	reply := handleText(p, "cust-1", "ENVIAR")
	require.Contains(t, reply, "Erro ao processar pedido")
	require.Equal(t, 1, registry.Len())

	// The cart survived; adding more items extends it.
	reply = handleText(p, "cust-1", "15")
	require.Contains(t, reply, "Total: R$ 64.40")
}

func TestHandle_ConcurrentCustomersGetDistinctOrders(t *testing.T) {
	store := orders.NewMemoryStore(0)
	p, _ := newTestProcessor(t, store)

	const customers = 20
	var wg sync.WaitGroup
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("cust-%d", i)
			handleText(p, id, "1")
			handleText(p, id, "ENVIAR")
		}(i)
	}
	wg.Wait()

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, customers)

	seen := make(map[int64]bool)
	for _, order := range all {
		require.False(t, seen[order.ID])
		seen[order.ID] = true
	}
}
