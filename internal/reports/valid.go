// Package reports computes the derived views over the canonical store:
// inventory depletion, stock projection, the ads dashboard and the P&L
// simulation. Computation cores are pure folds over loaded rows; thin
// loaders feed them from the database.
package reports

import (
	"strings"

	"github.com/lojista/backoffice-service/internal/types"
)

// orderKey identifies an order across joins without relying on surrogate ids
type orderKey struct {
	code    string
	channel types.ChannelID
}

// Status phrases that mark an order as cancelled, returned or unpaid.
// Matching is by substring over the free-text status field: source data is
// uncontrolled marketplace wording, so exact enum matching would silently
// miss variants. The heuristic lives here and nowhere else.
var invalidStatusPhrases = []string{
	"cancelado",
	"cancelada",
	"cancelled",
	"canceled",
	"devolvido",
	"devolucao",
	"reembols",
	"nao pago",
	"unpaid",
	"aguardando pagamento",
}

// IsOrderValidForAccounting reports whether an order counts for revenue and
// stock depletion, based on its free-text status
func IsOrderValidForAccounting(status string) bool {
	normalized := normalizeStatus(status)
	for _, phrase := range invalidStatusPhrases {
		if strings.Contains(normalized, phrase) {
			return false
		}
	}
	return true
}

var statusReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

func normalizeStatus(status string) string {
	return statusReplacer.Replace(strings.ToLower(status))
}
