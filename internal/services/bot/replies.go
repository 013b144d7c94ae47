package bot

import (
	"fmt"
	"strings"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// Replies builds every customer-facing text. The wording is part of the
// observable contract with customers, so it stays in Portuguese and only
// the restaurant identity is parameterized.
type Replies struct {
	restaurantName string
	phone          string
}

// NewReplies creates the reply builder for one restaurant.
func NewReplies(restaurantName, phone string) *Replies {
	return &Replies{
		restaurantName: restaurantName,
		phone:          phone,
	}
}

// Welcome is sent when a message carries no item numbers at all.
func (r *Replies) Welcome() string {
	return fmt.Sprintf(`🍽️ *Bem-vindo ao %s!*

Para fazer seu pedido, digite os números dos pratos desejados.
Exemplo: 1, 3, 15

Digite 'ENVIAR' quando terminar seu pedido.`, r.restaurantName)
}

// EmptyOrder is sent when ENVIAR arrives with nothing in the cart.
func (r *Replies) EmptyOrder() string {
	return "❌ Nenhum item no pedido. Digite os números dos pratos desejados."
}

// NoValidItems is sent when every candidate number failed to resolve.
func (r *Replies) NoValidItems() string {
	return "❌ Nenhum item válido encontrado. Verifique os números e tente novamente."
}

// ProcessingError is sent when checkout persistence fails. The cart is
// kept, so the customer can simply retry ENVIAR.
func (r *Replies) ProcessingError() string {
	return "❌ Erro ao processar pedido. Envie 'ENVIAR' novamente ou entre em contato conosco."
}

// CartSummary shows the current cart and prompts for more items or ENVIAR.
func (r *Replies) CartSummary(lines []models.CartLine, total float64) string {
	var b strings.Builder
	b.WriteString("🍽️ *Seu pedido:*\n")
	writeLines(&b, lines)
	fmt.Fprintf(&b, "\n*Total: R$ %.2f*\n\n", total)
	b.WriteString("Digite mais números para adicionar itens ou envie 'ENVIAR' para finalizar.")
	return b.String()
}

// Confirmed summarizes the finalized order: lines, total, estimated time
// and the assigned order id.
func (r *Replies) Confirmed(order models.Order) string {
	var b strings.Builder
	b.WriteString("✅ *Pedido confirmado!*\n\n")
	fmt.Fprintf(&b, "🆔 *Pedido:* #%d\n", order.ID)
	b.WriteString("🍽️ *Itens do pedido:*\n")
	writeLines(&b, order.Lines)
	fmt.Fprintf(&b, "\n💰 *Total: R$ %.2f*\n", order.Total)
	fmt.Fprintf(&b, "⏱️ *Tempo estimado:* %d minutos\n", order.EstimatedMinutes)
	fmt.Fprintf(&b, "🚚 *Entrega estimada:* %s\n\n", order.DeliveryETA.Local().Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "📞 *Para dúvidas:* %s\n\n", r.phone)
	fmt.Fprintf(&b, "Obrigado por escolher o %s! 🍽️", r.restaurantName)
	return b.String()
}

func writeLines(b *strings.Builder, lines []models.CartLine) {
	for _, line := range lines {
		fmt.Fprintf(b, "• #%d - %s - R$ %.2f\n", line.Number, line.Name, line.Price)
	}
}
