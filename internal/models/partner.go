package models

import (
	"fmt"
	"strings"
)

// Partner is one of the four fixed profit-sharing participants.
type Partner string

const (
	PartnerLucas   Partner = "Lucas"
	PartnerThiago  Partner = "Thiago"
	PartnerRonaldo Partner = "Ronaldo"
	// PartnerReserva is the reserve pool. It receives a share but never withdraws.
	PartnerReserva Partner = "Reserva"
)

// Partners lists every share holder in display order.
var Partners = []Partner{PartnerLucas, PartnerThiago, PartnerRonaldo, PartnerReserva}

// ParsePartner resolves a partner name case-insensitively.
func ParsePartner(name string) (Partner, error) {
	name = strings.TrimSpace(name)
	for _, p := range Partners {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown partner %q", name)
}

// TakesWithdrawals reports whether withdrawals may be attributed to p.
func (p Partner) TakesWithdrawals() bool {
	return p != PartnerReserva && p != ""
}

// ShareColumn is the totals column holding the partner's share.
func (p Partner) ShareColumn() string {
	return "share_" + strings.ToLower(string(p))
}
