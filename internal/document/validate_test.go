package document

import (
	"testing"

	"github.com/moorelegal/dossier/internal/errors"
)

func TestValidate_NegativeFeeRate(t *testing.T) {
	f := NewFacture(nil)
	f.FraisTaux = -5

	err := Validate(f)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestValidate_NegativePriceAllowed(t *testing.T) {
	f := NewFacture(nil)
	f.AddItem("Avoir sur acompte", -1000)

	if err := Validate(f); err != nil {
		t.Errorf("Validate() error = %v, want nil for credit line", err)
	}
}

func TestValidate_EmptyDescriptions(t *testing.T) {
	f := NewFacture(nil)
	f.Items = append(f.Items, LineItem{ID: 99, Description: "  ", Prix: 10})
	if err := Validate(f); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("facture error = %v, want INVALID_REQUEST", err)
	}

	p := NewPlainte(nil, "")
	p.Pieces = append(p.Pieces, Evidence{ID: 99})
	if err := Validate(p); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("plainte error = %v, want INVALID_REQUEST", err)
	}
}

func TestValidate_OtherTypesPass(t *testing.T) {
	for _, d := range []Draft{NewOrdonnance(nil, ""), NewContrat(nil, "")} {
		if err := Validate(d); err != nil {
			t.Errorf("Validate(%s) error = %v", d.Type(), err)
		}
	}
}
