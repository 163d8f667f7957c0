// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
)

// CategoryConfig is one expense category and the exact labels filed under it.
type CategoryConfig struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

// FeeConfig drives professional-fee detection.
type FeeConfig struct {
	// Prefix is matched against case-folded, accent-stripped descriptions.
	Prefix string `yaml:"prefix"`
	// Category, when set, also files fee rows as expense lines under this name.
	Category string `yaml:"category"`
}

// WithdrawalConfig lists the labels under which a partner's withdrawals
// appear inside the expense sheet.
type WithdrawalConfig struct {
	Person string   `yaml:"person"`
	Labels []string `yaml:"labels"`
}

// Taxonomy is the versioned classification table of one report revision.
type Taxonomy struct {
	Revision    string             `yaml:"revision"`
	Categories  []CategoryConfig   `yaml:"categories"`
	Fees        FeeConfig          `yaml:"fees"`
	Withdrawals []WithdrawalConfig `yaml:"withdrawals"`
}

// CategoryOrder returns the category names in file order, which is also the
// display order of the dashboard.
func (t Taxonomy) CategoryOrder() []string {
	order := make([]string, 0, len(t.Categories)+1)
	for _, c := range t.Categories {
		order = append(order, c.Name)
	}
	if t.Fees.Category != "" && !contains(order, t.Fees.Category) {
		order = append(order, t.Fees.Category)
	}
	return order
}

// Validate rejects tables that would make classification ambiguous.
func (t Taxonomy) Validate() error {
	owner := make(map[string]string)
	for _, c := range t.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category without a name")
		}
		for _, label := range c.Labels {
			label = strings.TrimSpace(label)
			if label == "" {
				return fmt.Errorf("category %q has an empty label", c.Name)
			}
			if prev, ok := owner[label]; ok && prev != c.Name {
				return fmt.Errorf("label %q belongs to both %q and %q", label, prev, c.Name)
			}
			owner[label] = c.Name
		}
	}
	for _, w := range t.Withdrawals {
		p, err := ParsePartner(w.Person)
		if err != nil {
			return fmt.Errorf("withdrawal labels: %w", err)
		}
		if !p.TakesWithdrawals() {
			return fmt.Errorf("withdrawal labels: %s cannot take withdrawals", p)
		}
		for _, label := range w.Labels {
			label = strings.TrimSpace(label)
			if prev, ok := owner[label]; ok {
				return fmt.Errorf("label %q belongs to both %q and withdrawals of %s", label, prev, p)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
