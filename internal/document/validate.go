package document

import (
	"strings"

	"github.com/moorelegal/dossier/internal/errors"
)

// Validate checks a draft before it is saved or exported.
//
// Negative line-item prices pass: they are credit or discount lines.
// A negative fee rate has no such reading and is rejected.
func Validate(d Draft) error {
	switch x := d.(type) {
	case *FactureDraft:
		if x.FraisTaux < 0 {
			return errors.NewInvalidRequest("frais_taux cannot be negative")
		}
		for _, it := range x.Items {
			if strings.TrimSpace(it.Description) == "" {
				return errors.NewInvalidRequest("line item description cannot be empty")
			}
		}
	case *PlainteDraft:
		for _, p := range x.Pieces {
			if strings.TrimSpace(p.Description) == "" {
				return errors.NewInvalidRequest("evidence description cannot be empty")
			}
		}
	}
	return nil
}
